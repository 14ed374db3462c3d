package config

// OidcConfig carries the optional single-sign-on provider settings.
// SSO is enabled only when an issuer URL is present.
type OidcConfig interface {
	GetOidcIssuer() string
	GetOidcClientID() string
	GetOidcClientSecret() string
	GetOidcRedirectURL() string
}

type Oidc struct{}

var _ OidcConfig = Oidc{}

func (Oidc) GetOidcIssuer() string {
	return GetEnv("OIDC_ISSUER", "")
}

func (Oidc) GetOidcClientID() string {
	return GetEnv("OIDC_CLIENT_ID", "")
}

func (Oidc) GetOidcClientSecret() string {
	return GetEnv("OIDC_CLIENT_SECRET", "")
}

func (Oidc) GetOidcRedirectURL() string {
	return GetEnv("OIDC_REDIRECT_URL", "http://localhost:4000/auth/sso/callback")
}
