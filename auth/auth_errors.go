package auth

import "github.com/pkg/errors"

var (
	UsernameTakenErr      = errors.New("username already exists")
	ValidationFailedErr   = errors.New("validation failed")
	InvalidCredentialsErr = errors.New("invalid username or password")
	UnauthenticatedErr    = errors.New("authentication required")
)
