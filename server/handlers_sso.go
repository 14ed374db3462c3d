package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/inkpress/go-blog-server/internal/config"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// OidcProvider holds the discovered identity provider and the OAuth2 client
// settings for the optional SSO login path.
type OidcProvider struct {
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// NewOidcProvider discovers the configured identity provider. It returns
// (nil, nil) when no issuer is configured, which disables the SSO routes.
func NewOidcProvider(ctx context.Context, cfg config.OidcConfig) (*OidcProvider, error) {
	issuer := cfg.GetOidcIssuer()
	if issuer == "" {
		return nil, nil
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to discover OIDC provider")
	}

	return &OidcProvider{
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     cfg.GetOidcClientID(),
			ClientSecret: cfg.GetOidcClientSecret(),
			RedirectURL:  cfg.GetOidcRedirectURL(),
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

// SSOLoginHandler redirects the browser to the identity provider.
func (s *Server) SSOLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := generateState()
		http.SetCookie(w, &http.Cookie{
			Name:     "oauth_state",
			Value:    state,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
			MaxAge:   300,
		})
		http.Redirect(w, r, s.oidc.OAuth2Config.AuthCodeURL(state), http.StatusFound)
	}
}

// SSOCallbackHandler exchanges the provider's code, verifies the ID token,
// and issues the same session cookie a password login would.
func (s *Server) SSOCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := r.Cookie("oauth_state")
		if err != nil || r.URL.Query().Get("state") != state.Value {
			writeError(w, http.StatusBadRequest, "invalid state")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "oauth_state", MaxAge: -1, Path: "/"})

		oauthToken, err := s.oidc.OAuth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			writeError(w, http.StatusBadGateway, "failed to exchange code")
			return
		}

		rawIDToken, ok := oauthToken.Extra("id_token").(string)
		if !ok {
			writeError(w, http.StatusBadGateway, "no id_token in provider response")
			return
		}

		verifier := s.oidc.Provider.Verifier(&oidc.Config{ClientID: s.oidc.OAuth2Config.ClientID})
		idToken, err := verifier.Verify(r.Context(), rawIDToken)
		if err != nil {
			writeError(w, http.StatusBadGateway, "failed to verify id token")
			return
		}

		var idClaims struct {
			Email string `json:"email"`
			Sub   string `json:"sub"`
		}
		if err = idToken.Claims(&idClaims); err != nil {
			writeError(w, http.StatusBadGateway, "failed to parse id token claims")
			return
		}

		username := idClaims.Email
		if username == "" {
			username = idClaims.Sub
		}

		_, signedToken, err := s.auth.LoginExternal(r.Context(), username)
		if err != nil {
			respondError(w, err)
			return
		}

		s.setSessionCookie(w, signedToken)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
