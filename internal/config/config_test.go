package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/connect-onboarding/internal/config"
	"github.com/stretchr/testify/require"
)

func TestEnvVars_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("ENV", "")

	c := config.New()
	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "http://localhost:8080", c.GetBaseURL())
	require.Equal(t, "http://localhost:8080/callback", c.GetCallbackURL())
	require.Equal(t, "http://localhost:8080/custom_form/detail", c.GetOnboardingReturnURL())
	require.Equal(t, "JP", c.GetAccountCountry())
	require.Equal(t, "jpy", c.GetPayoutCurrency())
	require.Equal(t, config.SessionBackendMemory, c.GetSessionBackend())
}

func TestEnvVars_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_URL", "https://onboarding.example.com/")
	t.Setenv("SESSION_MAX_AGE", "30m")
	t.Setenv("STRIPE_MAX_NETWORK_RETRIES", "2")

	c := config.New()
	require.Equal(t, ":9090", c.GetPort())
	require.Equal(t, "https://onboarding.example.com", c.GetBaseURL())
	require.Equal(t, 30*time.Minute, c.GetMaxSessionAge())
	require.Equal(t, int64(2), c.GetStripeMaxNetworkRetries())
}

func TestIdentity_LowerCaseNamesWin(t *testing.T) {
	t.Setenv("client_id", "lower")
	t.Setenv("CLIENT_ID", "upper")
	require.Equal(t, "lower", config.New().GetClientID())

	t.Setenv("client_id", "")
	require.Equal(t, "upper", config.New().GetClientID())
}

func TestCors_AllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	origins := config.New().GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.False(t, origins.IsAllowedOrigin("*"))
	require.Equal(t, "https://a.example.com, https://b.example.com", origins.String())
}

func TestValidate(t *testing.T) {
	for _, v := range []string{"client_id", "CLIENT_ID", "client_secret", "CLIENT_SECRET", "IDP_ISSUER", "stripe_api_key", "STRIPE_API_KEY", "app_secret_key", "APP_SECRET_KEY"} {
		t.Setenv(v, "")
	}
	t.Setenv("BASE_URL", "")
	t.Setenv("SESSION_BACKEND", "")

	err := config.Validate(config.New())
	require.Error(t, err)
	require.Contains(t, err.Error(), "client_id is required")
	require.Contains(t, err.Error(), "stripe_api_key is required")

	t.Setenv("client_id", "id")
	t.Setenv("client_secret", "secret")
	t.Setenv("IDP_ISSUER", "https://idp.example.com/")
	t.Setenv("stripe_api_key", "sk_test_123")
	t.Setenv("app_secret_key", "s3cret")
	require.NoError(t, config.Validate(config.New()))

	t.Setenv("SESSION_BACKEND", "disk")
	require.ErrorContains(t, config.Validate(config.New()), "SESSION_BACKEND")
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, config.LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_NAME=From File\n"), 0o600))
	t.Setenv("APP_NAME", "")
	os.Unsetenv("APP_NAME")
	require.NoError(t, config.LoadEnvFile(path))
	require.Equal(t, "From File", config.New().GetAppName())
}
