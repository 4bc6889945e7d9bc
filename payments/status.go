package payments

import (
	"context"

	"github.com/jrsteele09/connect-onboarding/tenants"
)

const (
	StatusUnregistered = "unregistered"
	StatusComplete     = "complete"
)

// State is the account status derived on every request from the tenant record and a live read.
type State struct {
	Registered bool
	Status     string
	Account    *Account
}

// StatusOf returns the first pending requirement code, or StatusComplete when nothing is due.
func StatusOf(a *Account) string {
	if len(a.Requirements.EventuallyDue) > 0 {
		return a.Requirements.EventuallyDue[0]
	}
	return StatusComplete
}

// IsComplete reports whether the account has no outstanding requirements.
func (s State) IsComplete() bool {
	return s.Registered && s.Status == StatusComplete
}

// ReadState reports the tenant's account state. Tenants without an account are
// reported as unregistered without calling the payments API.
func ReadState(ctx context.Context, gw Gateway, t *tenants.Tenant) (State, error) {
	if !t.HasAccount() {
		return State{Status: StatusUnregistered}, nil
	}
	acct, err := gw.GetAccount(ctx, t.StripeAccountID)
	if err != nil {
		return State{}, err
	}
	return State{Registered: true, Status: StatusOf(acct), Account: acct}, nil
}
