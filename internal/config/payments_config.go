package config

type Payments struct{}

var _ PaymentsConfig = Payments{}

func (Payments) GetStripeAPIKey() string {
	return getEnvAny("", "stripe_api_key", "STRIPE_API_KEY")
}

// GetStripeAPIURL overrides the payments API base URL, e.g. to point at stripe-mock.
func (Payments) GetStripeAPIURL() string {
	return GetEnv("STRIPE_API_URL", "")
}

func (Payments) GetStripeMaxNetworkRetries() int64 {
	return getEnvInt("STRIPE_MAX_NETWORK_RETRIES", 0)
}

func (Payments) GetAccountCountry() string {
	return GetEnv("ACCOUNT_COUNTRY", "JP")
}

func (Payments) GetPayoutCurrency() string {
	return GetEnv("PAYOUT_CURRENCY", "jpy")
}

// GetOnboardingReturnURL is used as both refresh_url and return_url of onboarding links.
func (Payments) GetOnboardingReturnURL() string {
	return EnvVars{}.GetBaseURL() + "/custom_form/detail"
}
