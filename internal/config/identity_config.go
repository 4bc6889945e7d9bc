package config

import "strings"

type Identity struct{}

var _ IdentityConfig = Identity{}

func (Identity) GetClientID() string {
	return getEnvAny("", "client_id", "CLIENT_ID")
}

func (Identity) GetClientSecret() string {
	return getEnvAny("", "client_secret", "CLIENT_SECRET")
}

// GetIssuer is the OIDC issuer, e.g. "https://tenant.us.auth0.com/"
func (Identity) GetIssuer() string {
	return GetEnv("IDP_ISSUER", "")
}

func (Identity) GetLogoutPath() string {
	return GetEnv("IDP_LOGOUT_PATH", "/v2/logout")
}

// GetClaimNamespace is the prefix of the custom app_metadata claim that carries the tenant id.
func (Identity) GetClaimNamespace() string {
	return strings.TrimSuffix(GetEnv("CLAIM_NAMESPACE", "https://connect-onboarding"), "/")
}

func (Identity) GetCallbackURL() string {
	return EnvVars{}.GetBaseURL() + "/callback"
}
