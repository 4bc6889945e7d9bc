package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate reports every missing or malformed setting the server cannot start without.
func Validate(c Config) error {
	var errs []error
	required := map[string]string{
		"client_id":      c.GetClientID(),
		"client_secret":  c.GetClientSecret(),
		"IDP_ISSUER":     c.GetIssuer(),
		"stripe_api_key": c.GetStripeAPIKey(),
		"app_secret_key": c.GetAppSecretKey(),
	}
	for _, name := range []string{"client_id", "client_secret", "IDP_ISSUER", "stripe_api_key", "app_secret_key"} {
		if required[name] == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
		}
	}
	if u, err := url.Parse(c.GetBaseURL()); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("BASE_URL %q must be an absolute URL", c.GetBaseURL()))
	}
	switch c.GetSessionBackend() {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND %q must be %q or %q", c.GetSessionBackend(), SessionBackendMemory, SessionBackendRedis))
	}
	return errors.Join(errs...)
}
