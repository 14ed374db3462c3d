package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/inkpress/go-blog-server/auth"
	"github.com/inkpress/go-blog-server/token"
	fakeuserrepo "github.com/inkpress/go-blog-server/users/repofake"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) *auth.Service {
	t.Helper()
	tokens := token.NewService(token.NewHMACSigner("test-secret"), time.Hour)
	svc, err := auth.NewService(fakeuserrepo.NewFakeUserRepo(), tokens, bcrypt.MinCost)
	require.NoError(t, err)
	return svc
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and issues token", func(t *testing.T) {
		svc := newService(t)

		user, signed, err := svc.Register(ctx, "alice", "secret-pass")
		require.NoError(t, err)
		require.NotEmpty(t, user.ID)
		require.Equal(t, "alice", user.Username)
		require.Empty(t, user.PasswordHash, "public user must not carry the hash")
		require.NotEmpty(t, signed)
	})

	t.Run("token claims match the created user", func(t *testing.T) {
		tokens := token.NewService(token.NewHMACSigner("test-secret"), time.Hour)
		svc, err := auth.NewService(fakeuserrepo.NewFakeUserRepo(), tokens, bcrypt.MinCost)
		require.NoError(t, err)

		user, signed, err := svc.Register(ctx, "alice", "secret-pass")
		require.NoError(t, err)

		claims, err := tokens.Verify(signed)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.UserID)
		require.Equal(t, "alice", claims.Username)
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc := newService(t)

		first, _, err := svc.Register(ctx, "alice", "secret-pass")
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, "alice", "other-pass")
		require.ErrorIs(t, err, auth.UsernameTakenErr)

		// First registration still logs in.
		again, _, err := svc.Login(ctx, "alice", "secret-pass")
		require.NoError(t, err)
		require.Equal(t, first.ID, again.ID)
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		svc := newService(t)

		_, _, err := svc.Register(ctx, "", "secret-pass")
		require.ErrorIs(t, err, auth.ValidationFailedErr)

		_, _, err = svc.Register(ctx, "alice", "")
		require.ErrorIs(t, err, auth.ValidationFailedErr)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		tokens := token.NewService(token.NewHMACSigner("test-secret"), time.Hour)
		svc, err := auth.NewService(fakeuserrepo.NewFakeUserRepo(), tokens, bcrypt.MinCost)
		require.NoError(t, err)

		registered, _, err := svc.Register(ctx, "alice", "secret-pass")
		require.NoError(t, err)

		user, signed, err := svc.Login(ctx, "alice", "secret-pass")
		require.NoError(t, err)
		require.Equal(t, registered.ID, user.ID)

		claims, err := tokens.Verify(signed)
		require.NoError(t, err)
		require.Equal(t, registered.ID, claims.UserID)
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		svc := newService(t)

		_, _, err := svc.Register(ctx, "alice", "secret-pass")
		require.NoError(t, err)

		_, _, unknownErr := svc.Login(ctx, "nobody", "secret-pass")
		_, _, wrongErr := svc.Login(ctx, "alice", "wrong-pass")

		require.ErrorIs(t, unknownErr, auth.InvalidCredentialsErr)
		require.ErrorIs(t, wrongErr, auth.InvalidCredentialsErr)
		require.Equal(t, unknownErr.Error(), wrongErr.Error())
	})
}

func TestService_LoginExternal(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	user, signed, err := svc.LoginExternal(ctx, "alice@idp.example")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEmpty(t, signed)

	// Second login reuses the provisioned user.
	again, _, err := svc.LoginExternal(ctx, "alice@idp.example")
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)

	// Provisioned users cannot log in with a password.
	_, _, err = svc.Login(ctx, "alice@idp.example", "")
	require.ErrorIs(t, err, auth.InvalidCredentialsErr)
}
