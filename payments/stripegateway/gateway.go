// Package stripegateway implements payments.Gateway against the Stripe API.
package stripegateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jrsteele09/connect-onboarding/internal/metrics"
	"github.com/jrsteele09/connect-onboarding/internal/utils"
	"github.com/jrsteele09/connect-onboarding/payments"
	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var _ payments.Gateway = (*Gateway)(nil)

type Options struct {
	APIKey            string
	BaseURL           string // empty uses api.stripe.com
	MaxNetworkRetries int64
	HTTPClient        *http.Client
	Logger            zerolog.Logger
}

type Gateway struct {
	api *client.API
}

func New(opts Options) *Gateway {
	cfg := &stripe.BackendConfig{
		HTTPClient:        opts.HTTPClient,
		LeveledLogger:     leveledLogger{logger: opts.Logger.With().Str("component", "stripe").Logger()},
		MaxNetworkRetries: stripe.Int64(opts.MaxNetworkRetries),
	}
	if opts.BaseURL != "" {
		cfg.URL = stripe.String(opts.BaseURL)
	}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}
	return &Gateway{api: client.New(opts.APIKey, backends)}
}

func (g *Gateway) GetAccount(ctx context.Context, accountID string) (acct *payments.Account, err error) {
	defer observe("accounts.get", time.Now(), &err)

	params := &stripe.AccountParams{}
	params.Context = ctx
	sa, err := g.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return nil, translate("accounts.get", err)
	}
	return toAccount(sa), nil
}

func (g *Gateway) CreateAccount(ctx context.Context, req payments.CreateAccountRequest) (acct *payments.Account, err error) {
	defer observe("accounts.create", time.Now(), &err)

	params := &stripe.AccountParams{
		Country:      stripe.String(req.Country),
		Type:         stripe.String(req.Type),
		Capabilities: capabilityParams(req.Capabilities),
		BusinessProfile: &stripe.AccountBusinessProfileParams{
			ProductDescription: stripe.String(""),
		},
	}
	params.Context = ctx
	if req.TenantID != "" {
		params.AddMetadata("tenant_id", req.TenantID)
	}
	sa, err := g.api.Accounts.New(params)
	if err != nil {
		return nil, translate("accounts.create", err)
	}
	return toAccount(sa), nil
}

func (g *Gateway) DeleteAccount(ctx context.Context, accountID string) (err error) {
	defer observe("accounts.delete", time.Now(), &err)

	params := &stripe.AccountParams{}
	params.Context = ctx
	if _, err := g.api.Accounts.Del(accountID, params); err != nil {
		return translate("accounts.delete", err)
	}
	return nil
}

func (g *Gateway) CreateOnboardingLink(ctx context.Context, req payments.OnboardingLinkRequest) (link *payments.OnboardingLink, err error) {
	defer observe("account_links.create", time.Now(), &err)

	params := &stripe.AccountLinkParams{
		Account:    stripe.String(req.AccountID),
		RefreshURL: stripe.String(req.RefreshURL),
		ReturnURL:  stripe.String(req.ReturnURL),
		Type:       stripe.String(req.Type),
		Collect:    stripe.String(req.Collect),
	}
	params.Context = ctx
	al, err := g.api.AccountLinks.New(params)
	if err != nil {
		return nil, translate("account_links.create", err)
	}
	return &payments.OnboardingLink{URL: al.URL, ExpiresAt: al.ExpiresAt}, nil
}

func (g *Gateway) UpdateAccount(ctx context.Context, accountID string, req payments.UpdateAccountRequest) (acct *payments.Account, err error) {
	defer observe("accounts.update", time.Now(), &err)

	params := &stripe.AccountParams{
		Settings: &stripe.AccountSettingsParams{
			Payments: &stripe.AccountSettingsPaymentsParams{
				StatementDescriptor:      stripe.String(req.StatementDescriptor),
				StatementDescriptorKana:  stripe.String(req.StatementDescriptorKana),
				StatementDescriptorKanji: stripe.String(req.StatementDescriptorKanji),
			},
			Payouts: &stripe.AccountSettingsPayoutsParams{
				Schedule: &stripe.AccountSettingsPayoutsScheduleParams{
					Interval: stripe.String(req.PayoutInterval),
				},
			},
		},
		BusinessProfile: &stripe.AccountBusinessProfileParams{
			URL:                stripe.String(req.URL),
			ProductDescription: stripe.String(req.ProductDescription),
		},
	}
	params.Context = ctx
	sa, err := g.api.Accounts.Update(accountID, params)
	if err != nil {
		return nil, translate("accounts.update", err)
	}
	return toAccount(sa), nil
}

// AddBankAccount creates a bank account token first so raw account numbers are
// only sent to the tokens endpoint, then attaches the token as an external account.
func (g *Gateway) AddBankAccount(ctx context.Context, accountID string, req payments.BankAccountRequest) (bank *payments.BankAccount, err error) {
	defer observe("external_accounts.create", time.Now(), &err)

	tokenParams := &stripe.TokenParams{
		BankAccount: &stripe.BankAccountParams{
			Country:           stripe.String(req.Country),
			Currency:          stripe.String(req.Currency),
			AccountHolderName: stripe.String(req.AccountHolderName),
			AccountHolderType: stripe.String(req.AccountHolderType),
			RoutingNumber:     stripe.String(req.RoutingNumber),
			AccountNumber:     stripe.String(req.AccountNumber),
		},
	}
	tokenParams.Context = ctx
	tok, err := g.api.Tokens.New(tokenParams)
	if err != nil {
		return nil, translate("tokens.create", err)
	}

	attachParams := &stripe.BankAccountParams{
		Account: stripe.String(accountID),
		Token:   stripe.String(tok.ID),
	}
	attachParams.Context = ctx
	ba, err := g.api.BankAccounts.New(attachParams)
	if err != nil {
		return nil, translate("external_accounts.create", err)
	}
	return toBankAccount(ba), nil
}

func capabilityParams(capabilities []string) *stripe.AccountCapabilitiesParams {
	if len(capabilities) == 0 {
		return nil
	}
	p := &stripe.AccountCapabilitiesParams{}
	for _, c := range capabilities {
		switch c {
		case "card_payments":
			p.CardPayments = &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)}
		case "transfers":
			p.Transfers = &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)}
		case "jcb_payments":
			p.JCBPayments = &stripe.AccountCapabilitiesJCBPaymentsParams{Requested: stripe.Bool(true)}
		}
	}
	return p
}

func toAccount(sa *stripe.Account) *payments.Account {
	a := &payments.Account{
		ID:               sa.ID,
		Country:          sa.Country,
		Email:            sa.Email,
		BusinessType:     string(sa.BusinessType),
		ChargesEnabled:   sa.ChargesEnabled,
		PayoutsEnabled:   sa.PayoutsEnabled,
		DetailsSubmitted: sa.DetailsSubmitted,
	}
	requirements := utils.Value(sa.Requirements)
	a.Requirements = payments.Requirements{
		EventuallyDue:  requirements.EventuallyDue,
		CurrentlyDue:   requirements.CurrentlyDue,
		DisabledReason: string(requirements.DisabledReason),
	}
	profile := utils.Value(sa.BusinessProfile)
	a.BusinessProfile = payments.BusinessProfile{
		Name:               profile.Name,
		URL:                profile.URL,
		ProductDescription: profile.ProductDescription,
	}
	settings := utils.Value(sa.Settings)
	paymentSettings := utils.Value(settings.Payments)
	a.Settings = payments.Settings{
		StatementDescriptor:      paymentSettings.StatementDescriptor,
		StatementDescriptorKana:  paymentSettings.StatementDescriptorKana,
		StatementDescriptorKanji: paymentSettings.StatementDescriptorKanji,
		PayoutInterval:           string(utils.Value(utils.Value(settings.Payouts).Schedule).Interval),
	}
	if sa.ExternalAccounts != nil {
		for _, ea := range sa.ExternalAccounts.Data {
			if ea != nil && ea.BankAccount != nil {
				a.BankAccounts = append(a.BankAccounts, *toBankAccount(ea.BankAccount))
			}
		}
	}
	return a
}

func toBankAccount(ba *stripe.BankAccount) *payments.BankAccount {
	return &payments.BankAccount{
		ID:                ba.ID,
		AccountHolderName: ba.AccountHolderName,
		BankName:          ba.BankName,
		Last4:             ba.Last4,
		Currency:          string(ba.Currency),
	}
}

// translate keeps Stripe's error code, message and status instead of flattening them to a string.
func translate(operation string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		return payments.Upstream(&payments.UpstreamError{
			Operation:  operation,
			Code:       string(se.Code),
			Message:    se.Msg,
			StatusCode: se.HTTPStatusCode,
			RequestID:  se.RequestID,
			Err:        err,
		})
	}
	return payments.Upstream(&payments.UpstreamError{
		Operation: operation,
		Message:   err.Error(),
		Err:       err,
	})
}

func observe(operation string, start time.Time, err *error) {
	metrics.ObserveUpstream(operation, *err, time.Since(start))
}
