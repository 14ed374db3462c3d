package token_test

import (
	"testing"
	"time"

	"github.com/inkpress/go-blog-server/token"
	"github.com/stretchr/testify/require"
)

func newService() *token.Service {
	return token.NewService(token.NewHMACSigner("test-secret"), time.Hour)
}

func TestService_IssueVerifyRoundTrip(t *testing.T) {
	svc := newService()

	signed, err := svc.Issue("user-123", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.UserID)
	require.Equal(t, "alice", claims.Username)
}

func TestService_Verify(t *testing.T) {
	svc := newService()

	t.Run("expired token", func(t *testing.T) {
		token.NowTimeFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		defer func() { token.NowTimeFunc = time.Now }()

		signed, err := svc.Issue("user-123", "alice")
		require.NoError(t, err)

		token.NowTimeFunc = time.Now
		_, err = svc.Verify(signed)
		require.ErrorIs(t, err, token.TokenInvalidErr)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := token.NewService(token.NewHMACSigner("different-secret"), time.Hour)
		signed, err := other.Issue("user-123", "alice")
		require.NoError(t, err)

		_, err = svc.Verify(signed)
		require.ErrorIs(t, err, token.TokenInvalidErr)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := svc.Verify("not-a-jwt")
		require.ErrorIs(t, err, token.TokenInvalidErr)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.Verify("")
		require.ErrorIs(t, err, token.TokenInvalidErr)
	})

	t.Run("tampered payload", func(t *testing.T) {
		signed, err := svc.Issue("user-123", "alice")
		require.NoError(t, err)

		_, err = svc.Verify(signed + "x")
		require.ErrorIs(t, err, token.TokenInvalidErr)
	})
}
