package server

import (
	"context"
	"net/http"

	"github.com/inkpress/go-blog-server/token"
)

// SessionCookieName is the cookie the session token travels in.
const SessionCookieName = "token"

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyClaims stores the verified token claims
const ContextKeyClaims ContextKey = "claims"

// RequireAuth validates the session cookie and injects the verified claims
// into the request context. A missing, malformed, or expired token yields a
// 401 JSON response; it is never allowed to escape as a fault.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				respondError(w, token.TokenInvalidErr)
				return
			}

			claims, err := s.tokens.Verify(cookie.Value)
			if err != nil {
				respondError(w, token.TokenInvalidErr)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// claimsFromContext returns the claims RequireAuth stored, or nil when the
// request never passed authentication.
func claimsFromContext(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(ContextKeyClaims).(*token.Claims)
	return claims
}
