package config

import "time"

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetAppSecretKey() string {
	return getEnvAny("", "app_secret_key", "APP_SECRET_KEY")
}

func (Security) GetMaxSessionAge() time.Duration {
	return getEnvDuration("SESSION_MAX_AGE", 8*time.Hour)
}
