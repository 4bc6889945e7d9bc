package payments

// Business types reported by the payments API. They double as bank account holder types.
const (
	BusinessTypeIndividual = "individual"
	BusinessTypeCompany    = "company"
)

// PayoutIntervalManual is the only payout schedule this service sets.
const PayoutIntervalManual = "manual"

// Account is a read-through view of a connected account. It is never stored locally.
type Account struct {
	ID               string
	Country          string
	Email            string
	BusinessType     string
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
	Requirements     Requirements
	BusinessProfile  BusinessProfile
	Settings         Settings
	BankAccounts     []BankAccount
}

// Requirements lists outstanding compliance information. Order is the upstream's priority order.
type Requirements struct {
	EventuallyDue  []string
	CurrentlyDue   []string
	DisabledReason string
}

type BusinessProfile struct {
	Name               string
	URL                string
	ProductDescription string
}

type Settings struct {
	StatementDescriptor      string
	StatementDescriptorKana  string
	StatementDescriptorKanji string
	PayoutInterval           string
}

type BankAccount struct {
	ID                string
	AccountHolderName string
	BankName          string
	Last4             string
	Currency          string
}

// HolderType is the bank account holder type implied by the business type.
func (a *Account) HolderType() string {
	if a.BusinessType == BusinessTypeCompany {
		return BusinessTypeCompany
	}
	return BusinessTypeIndividual
}

// OnboardingLink is a short-lived, provider hosted URL collecting account information.
type OnboardingLink struct {
	URL       string
	ExpiresAt int64
}
