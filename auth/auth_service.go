// Package auth orchestrates registration and login: credential hashing,
// user creation, and session token issuance.
package auth

import (
	"context"

	"github.com/inkpress/go-blog-server/token"
	"github.com/inkpress/go-blog-server/users"
	"github.com/pkg/errors"
)

// Service moves users between the anonymous and authenticated states.
type Service struct {
	users      users.UserRepo
	tokens     *token.Service
	bcryptCost int
}

// NewService initializes the auth service with its injected dependencies.
func NewService(userRepo users.UserRepo, tokens *token.Service, bcryptCost int) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[auth.NewService] user repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[auth.NewService] token service is required")
	}

	return &Service{
		users:      userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}, nil
}

// Register creates a user from the supplied credentials and issues a session
// token for it. The returned user carries only public fields.
func (s *Service) Register(ctx context.Context, username, password string) (*users.User, string, error) {
	if err := users.ValidateCredentials(username, password); err != nil {
		return nil, "", errors.Wrap(ValidationFailedErr, err.Error())
	}

	hash, err := users.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", errors.Wrap(err, "[Register] failed to hash password")
	}

	user, err := s.users.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, users.UsernameTakenErr) {
			return nil, "", UsernameTakenErr
		}
		return nil, "", errors.Wrap(err, "[Register] failed to create user")
	}

	signedToken, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", errors.Wrap(err, "[Register] failed to issue token")
	}

	return user.Public(), signedToken, nil
}

// Login verifies the supplied credentials and issues a session token. Unknown
// usernames and wrong passwords yield the same error so usernames cannot be
// enumerated.
func (s *Service) Login(ctx context.Context, username, password string) (*users.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, "", InvalidCredentialsErr
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", InvalidCredentialsErr
	}

	signedToken, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", errors.Wrap(err, "[Login] failed to issue token")
	}

	return user.Public(), signedToken, nil
}

// LoginExternal issues a session for an identity already asserted by the
// configured identity provider, creating the user on first sight. Such users
// carry no usable password hash, so password login stays closed for them
// until they register one.
func (s *Service) LoginExternal(ctx context.Context, username string) (*users.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		user, err = s.users.Create(ctx, username, "")
		if errors.Is(err, users.UsernameTakenErr) {
			// Lost a provisioning race; the store's unique index won.
			user, err = s.users.GetByUsername(ctx, username)
		}
		if err != nil {
			return nil, "", errors.Wrap(err, "[LoginExternal] failed to provision user")
		}
	}

	signedToken, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", errors.Wrap(err, "[LoginExternal] failed to issue token")
	}

	return user.Public(), signedToken, nil
}
