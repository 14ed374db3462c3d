package config

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	StorageConfig
	OidcConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetMongoURI() string
	GetDatabaseName() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Storage
	Oidc
}

func New() Config {
	return mainConfig{}
}
