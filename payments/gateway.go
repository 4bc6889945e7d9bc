package payments

import "context"

// Gateway is the subset of the payments API the onboarding flow uses.
type Gateway interface {
	GetAccount(ctx context.Context, accountID string) (*Account, error)
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
	CreateOnboardingLink(ctx context.Context, req OnboardingLinkRequest) (*OnboardingLink, error)
	UpdateAccount(ctx context.Context, accountID string, req UpdateAccountRequest) (*Account, error)
	// AddBankAccount tokenizes the bank details and attaches the token to the account.
	AddBankAccount(ctx context.Context, accountID string, req BankAccountRequest) (*BankAccount, error)
}

type CreateAccountRequest struct {
	TenantID     string
	Country      string
	Type         string
	Capabilities []string
}

type OnboardingLinkRequest struct {
	AccountID  string
	RefreshURL string
	ReturnURL  string
	Type       string
	Collect    string
}

type UpdateAccountRequest struct {
	StatementDescriptor      string
	StatementDescriptorKana  string
	StatementDescriptorKanji string
	URL                      string
	ProductDescription       string
	PayoutInterval           string
}

type BankAccountRequest struct {
	Country           string
	Currency          string
	AccountHolderName string
	AccountHolderType string
	RoutingNumber     string
	AccountNumber     string
}
