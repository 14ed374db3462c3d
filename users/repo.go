package users

import (
	"context"

	"github.com/pkg/errors"
)

var (
	UserNotFoundErr  = errors.New("user not found")
	UsernameTakenErr = errors.New("username already exists")
)

// UserRepo is the port for credential persistence. Username uniqueness is
// enforced by the store; Create returns UsernameTakenErr on a conflict.
type UserRepo interface {
	Create(ctx context.Context, username, passwordHash string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
