package server

import (
	"net/http"

	"github.com/inkpress/go-blog-server/users"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterHandler creates a user and logs it straight in.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := parseJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, signedToken, err := s.auth.Register(r.Context(), req.Username, req.Password)
		if err != nil {
			respondError(w, err)
			return
		}

		s.setSessionCookie(w, signedToken)
		writeJSON(w, http.StatusCreated, map[string]*users.User{"user": user})
	}
}

// LoginHandler verifies credentials and issues a fresh session cookie.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := parseJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, signedToken, err := s.auth.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			respondError(w, err)
			return
		}

		s.setSessionCookie(w, signedToken)
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Login successful!",
			"user":    user,
		})
	}
}

// ProfileHandler echoes the verified token claims back to the client.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		writeJSON(w, http.StatusOK, claims)
	}
}

// LogoutHandler clears the session cookie. It succeeds whether or not a
// session existed, so repeating it is harmless.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clearSessionCookie(w)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	}
}

// The cookie is HTTP-only so page scripts never see the token. SameSite is
// Lax on every response that sets it; Secure is left off because deployments
// terminate TLS upstream or run on trusted local transport.
func (s *Server) setSessionCookie(w http.ResponseWriter, signedToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signedToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.tokens.Expiry().Seconds()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
