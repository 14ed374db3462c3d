// Package token issues and verifies the signed session tokens that carry a
// logged-in user's identity between requests.
package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// TokenInvalidErr covers every verification failure: bad signature, malformed
// payload, wrong signing method, or an elapsed expiry. Callers must not be able
// to tell these apart.
var TokenInvalidErr = errors.New("invalid token")

// Claims are the identity claims carried by a session token.
type Claims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
}

// Service creates and verifies self-contained session tokens. It keeps no
// state beyond the signing secret, so tokens remain valid across restarts of
// the same deployment.
type Service struct {
	signer Signer
	expiry time.Duration
}

// NewService creates a token service signing with the given signer. Tokens
// expire after the given duration.
func NewService(signer Signer, expiry time.Duration) *Service {
	return &Service{
		signer: signer,
		expiry: expiry,
	}
}

// Issue produces a signed token string encoding the subject's identity.
func (s *Service) Issue(userID, username string) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"sub":      userID,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.expiry).Unix(),
		"jti":      uuid.New().String(),
	}

	signedToken, err := s.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "failed to issue session token")
	}
	return signedToken, nil
}

// Verify parses and validates a raw token string. It returns the identity
// claims on success and TokenInvalidErr on any failure.
func (s *Service) Verify(rawToken string) (*Claims, error) {
	parser := jwtlib.NewParser(
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(rawToken, jwtlib.MapClaims{}, s.signer.GetVerificationKey)
	if err != nil || !token.Valid {
		return nil, TokenInvalidErr
	}

	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, TokenInvalidErr
	}

	sub, _ := mapClaims["sub"].(string)
	username, _ := mapClaims["username"].(string)
	if sub == "" {
		return nil, TokenInvalidErr
	}

	return &Claims{UserID: sub, Username: username}, nil
}

// Expiry returns the configured token lifetime.
func (s *Service) Expiry() time.Duration {
	return s.expiry
}
