package config

import "time"

type SecurityConfig interface {
	GetSecretKey() string
	GetTokenExpiry() time.Duration
	GetBcryptCost() int
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetSecretKey() string {
	return GetEnv("SECRET_KEY", "")
}

func (Security) GetTokenExpiry() time.Duration {
	return 1 * time.Hour
}

func (Security) GetBcryptCost() int {
	return 10
}
