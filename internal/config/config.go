package config

import (
	"time"
)

type Config interface {
	EnvConfig
	CorsConfig
	IdentityConfig
	PaymentsConfig
	SecurityConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type IdentityConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetIssuer() string
	GetLogoutPath() string
	GetClaimNamespace() string
	GetCallbackURL() string
}

type PaymentsConfig interface {
	GetStripeAPIKey() string
	GetStripeAPIURL() string
	GetStripeMaxNetworkRetries() int64
	GetAccountCountry() string
	GetPayoutCurrency() string
	GetOnboardingReturnURL() string
}

type SecurityConfig interface {
	GetAppSecretKey() string
	GetMaxSessionAge() time.Duration
}

type StorageConfig interface {
	GetDataFile() string
	GetSessionBackend() string
	GetRedisAddr() string
}

type mainConfig struct {
	EnvVars
	Cors
	Identity
	Payments
	Security
	Storage
}

func New() Config {
	return mainConfig{}
}
