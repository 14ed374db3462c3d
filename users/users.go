package users

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 64
	minPasswordLength = 4
)

type User struct {
	ID           string    `json:"id,omitempty"`       // Unique identifier assigned by the store
	Username     string    `json:"username,omitempty"` // Unique username, immutable after creation
	PasswordHash string    `json:"-"`                  // Hashed version of the user's password - never serialize
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Public returns the fields of the user that are safe to send to clients.
func (u *User) Public() *User {
	return &User{ID: u.ID, Username: u.Username}
}

// ValidateCredentials checks registration input against the store-side
// constraints before any hashing work is done.
func ValidateCredentials(username, password string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return fmt.Errorf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
