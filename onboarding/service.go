// Package onboarding drives a tenant's connected account through
// NoAccount -> Onboarding(requirements...) -> Complete.
//
// No state is stored here. Every call derives the current state from the tenant
// record and a live read of the payments API, so Complete is not sticky: a new
// requirement upstream moves the account back to a pending code.
package onboarding

import (
	"context"

	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
	"github.com/jrsteele09/connect-onboarding/internal/metrics"
	"github.com/jrsteele09/connect-onboarding/payments"
	"github.com/jrsteele09/connect-onboarding/tenants"
	"github.com/rs/zerolog/log"
)

const (
	accountTypeCustom    = "custom"
	linkTypeOnboarding   = "account_onboarding"
	collectEventuallyDue = "eventually_due"
)

var defaultCapabilities = []string{"card_payments", "transfers", "jcb_payments"}

type Options struct {
	Country   string // account and bank account country, e.g. "JP"
	Currency  string // bank account currency, e.g. "jpy"
	ReturnURL string // refresh_url and return_url of onboarding links
}

type Service struct {
	tenants tenants.Repo
	gateway payments.Gateway
	opts    Options
}

func NewService(repo tenants.Repo, gateway payments.Gateway, opts Options) *Service {
	if opts.Country == "" {
		opts.Country = "JP"
	}
	if opts.Currency == "" {
		opts.Currency = "jpy"
	}
	return &Service{tenants: repo, gateway: gateway, opts: opts}
}

// State reports the tenant's current account state without mutating anything.
func (s *Service) State(ctx context.Context, t *tenants.Tenant) (payments.State, error) {
	return payments.ReadState(ctx, s.gateway, t)
}

// Detail is State for views that need a linked account.
func (s *Service) Detail(ctx context.Context, t *tenants.Tenant) (payments.State, error) {
	if !t.HasAccount() {
		return payments.State{}, apperrors.E(apperrors.KindAccountNotFound, "onboarding.Detail", apperrors.ErrAccountNotFound)
	}
	return payments.ReadState(ctx, s.gateway, t)
}

// Start creates the tenant's connected account, links it to the tenant record
// and returns an onboarding link for it. A tenant that already has an account
// gets a fresh link for that account instead.
//
// The account id is written with a conditional update before the link is
// created, so a failed link still leaves a resumable account. When another
// request links an account first, the account created here is deleted
// upstream and the caller is sent to the winning account's onboarding.
func (s *Service) Start(ctx context.Context, t *tenants.Tenant) (*payments.OnboardingLink, error) {
	const op = "onboarding.Start"
	if t.HasAccount() {
		return s.Resume(ctx, t)
	}

	acct, err := s.gateway.CreateAccount(ctx, payments.CreateAccountRequest{
		TenantID:     t.ID,
		Country:      s.opts.Country,
		Type:         accountTypeCustom,
		Capabilities: defaultCapabilities,
	})
	if err != nil {
		return nil, err
	}

	stored, err := s.tenants.LinkAccount(ctx, t.ID, acct.ID)
	switch {
	case err == nil:
		metrics.RecordAccountLink("linked")
		log.Info().Str("tenant_id", t.ID).Str("account_id", acct.ID).Msg("Connected account linked to tenant")
		return s.newLink(ctx, acct.ID)

	case apperrors.Is(err, apperrors.ErrAccountAlreadyLinked):
		metrics.RecordAccountLink("lost_race")
		log.Warn().Str("tenant_id", t.ID).Str("account_id", acct.ID).Str("linked_account_id", stored.StripeAccountID).
			Msg("Tenant was linked concurrently; discarding the new account")
		s.discard(ctx, t.ID, acct.ID)
		return s.newLink(ctx, stored.StripeAccountID)

	default:
		metrics.RecordAccountLink("failed")
		log.Error().Err(err).Str("tenant_id", t.ID).Str("account_id", acct.ID).Msg("Failed to link connected account to tenant")
		s.discard(ctx, t.ID, acct.ID)
		if apperrors.Is(err, apperrors.ErrTenantNotFound) {
			return nil, apperrors.E(apperrors.KindTenantNotFound, op, err)
		}
		return nil, apperrors.E(apperrors.KindInternal, op, err)
	}
}

// Resume creates a fresh onboarding link for an already linked account, e.g. after
// an earlier link expired. The tenant record is not touched.
func (s *Service) Resume(ctx context.Context, t *tenants.Tenant) (*payments.OnboardingLink, error) {
	if !t.HasAccount() {
		return nil, apperrors.E(apperrors.KindAccountNotFound, "onboarding.Resume", apperrors.ErrAccountNotFound)
	}
	return s.newLink(ctx, t.StripeAccountID)
}

// UpdateSettings applies statement descriptor and business URL edits. The payout
// schedule is always set to manual.
func (s *Service) UpdateSettings(ctx context.Context, t *tenants.Tenant, in SettingsInput) (payments.State, error) {
	const op = "onboarding.UpdateSettings"
	if !t.HasAccount() {
		return payments.State{}, apperrors.E(apperrors.KindAccountNotFound, op, apperrors.ErrAccountNotFound)
	}
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return payments.State{}, apperrors.E(apperrors.KindValidation, op, err)
	}

	acct, err := s.gateway.UpdateAccount(ctx, t.StripeAccountID, payments.UpdateAccountRequest{
		StatementDescriptor:      in.StatementDescriptor,
		StatementDescriptorKana:  in.StatementDescriptorKana,
		StatementDescriptorKanji: in.StatementDescriptorKanji,
		URL:                      in.URL,
		ProductDescription:       "",
		PayoutInterval:           payments.PayoutIntervalManual,
	})
	if err != nil {
		return payments.State{}, err
	}
	return payments.State{Registered: true, Status: payments.StatusOf(acct), Account: acct}, nil
}

// AddBankAccount tokenizes the bank details and attaches them to the tenant's
// account. The holder type follows the account's business type.
func (s *Service) AddBankAccount(ctx context.Context, t *tenants.Tenant, in BankAccountInput) (*payments.BankAccount, error) {
	const op = "onboarding.AddBankAccount"
	if !t.HasAccount() {
		return nil, apperrors.E(apperrors.KindAccountNotFound, op, apperrors.ErrAccountNotFound)
	}
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return nil, apperrors.E(apperrors.KindValidation, op, err)
	}

	acct, err := s.gateway.GetAccount(ctx, t.StripeAccountID)
	if err != nil {
		return nil, err
	}
	bank, err := s.gateway.AddBankAccount(ctx, acct.ID, payments.BankAccountRequest{
		Country:           s.opts.Country,
		Currency:          s.opts.Currency,
		AccountHolderName: in.AccountHolderName,
		AccountHolderType: acct.HolderType(),
		RoutingNumber:     in.RoutingNumber,
		AccountNumber:     in.AccountNumber,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("tenant_id", t.ID).Str("account_id", acct.ID).Str("bank_account_id", bank.ID).Msg("Bank account attached")
	return bank, nil
}

func (s *Service) newLink(ctx context.Context, accountID string) (*payments.OnboardingLink, error) {
	return s.gateway.CreateOnboardingLink(ctx, payments.OnboardingLinkRequest{
		AccountID:  accountID,
		RefreshURL: s.opts.ReturnURL,
		ReturnURL:  s.opts.ReturnURL,
		Type:       linkTypeOnboarding,
		Collect:    collectEventuallyDue,
	})
}

// discard deletes an account that could not be kept. Failures only get logged;
// the account id is in the log line for manual cleanup.
func (s *Service) discard(ctx context.Context, tenantID, accountID string) {
	if err := s.gateway.DeleteAccount(ctx, accountID); err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Str("account_id", accountID).Msg("Failed to delete orphaned connected account")
	}
}
