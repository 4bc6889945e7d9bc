// Package fakegateway is an in-memory payments.Gateway used by tests.
package fakegateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/connect-onboarding/payments"
)

var _ payments.Gateway = (*FakeGateway)(nil)

// Call records one gateway invocation.
type Call struct {
	Method    string
	AccountID string
}

type FakeGateway struct {
	lock     sync.Mutex
	seq      int
	accounts map[string]*payments.Account
	deleted  map[string]bool
	links    []payments.OnboardingLinkRequest
	tokens   []payments.BankAccountRequest
	calls    []Call
	failures map[string]error

	// BeforeCreate runs inside CreateAccount before the account is stored. Tests use it to interleave requests.
	BeforeCreate func()
}

func New() *FakeGateway {
	return &FakeGateway{
		accounts: make(map[string]*payments.Account),
		deleted:  make(map[string]bool),
		failures: make(map[string]error),
	}
}

// AddAccount seeds an account and returns it with its generated id.
func (g *FakeGateway) AddAccount(acct *payments.Account) *payments.Account {
	g.lock.Lock()
	defer g.lock.Unlock()
	if acct.ID == "" {
		acct.ID = g.nextID("acct")
	}
	g.accounts[acct.ID] = acct
	return copyAccount(acct)
}

// SetRequirements replaces the eventually_due list of an account.
func (g *FakeGateway) SetRequirements(accountID string, due []string) {
	g.lock.Lock()
	defer g.lock.Unlock()
	if acct, ok := g.accounts[accountID]; ok {
		acct.Requirements.EventuallyDue = due
	}
}

// FailNext makes the next call of method return err. *payments.UpstreamError
// values are tagged the same way the real gateway tags them.
func (g *FakeGateway) FailNext(method string, err error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.failures[method] = err
}

func (g *FakeGateway) Calls() []Call {
	g.lock.Lock()
	defer g.lock.Unlock()
	return append([]Call(nil), g.calls...)
}

func (g *FakeGateway) Links() []payments.OnboardingLinkRequest {
	g.lock.Lock()
	defer g.lock.Unlock()
	return append([]payments.OnboardingLinkRequest(nil), g.links...)
}

func (g *FakeGateway) BankAccountRequests() []payments.BankAccountRequest {
	g.lock.Lock()
	defer g.lock.Unlock()
	return append([]payments.BankAccountRequest(nil), g.tokens...)
}

func (g *FakeGateway) Account(accountID string) (*payments.Account, bool) {
	g.lock.Lock()
	defer g.lock.Unlock()
	acct, ok := g.accounts[accountID]
	if !ok {
		return nil, false
	}
	return copyAccount(acct), true
}

func (g *FakeGateway) AccountCount() int {
	g.lock.Lock()
	defer g.lock.Unlock()
	return len(g.accounts)
}

func (g *FakeGateway) Deleted(accountID string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.deleted[accountID]
}

func (g *FakeGateway) GetAccount(_ context.Context, accountID string) (*payments.Account, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	if err := g.begin("GetAccount", accountID); err != nil {
		return nil, err
	}
	acct, ok := g.accounts[accountID]
	if !ok {
		return nil, notFound("accounts.get", accountID)
	}
	return copyAccount(acct), nil
}

func (g *FakeGateway) CreateAccount(_ context.Context, req payments.CreateAccountRequest) (*payments.Account, error) {
	g.lock.Lock()
	if err := g.begin("CreateAccount", ""); err != nil {
		g.lock.Unlock()
		return nil, err
	}
	hook := g.BeforeCreate
	g.lock.Unlock()

	if hook != nil {
		hook()
	}

	g.lock.Lock()
	defer g.lock.Unlock()
	acct := &payments.Account{
		ID:      g.nextID("acct"),
		Country: req.Country,
		Requirements: payments.Requirements{
			EventuallyDue: []string{"business_type", "external_account", "tos_acceptance.date"},
		},
	}
	g.accounts[acct.ID] = acct
	return copyAccount(acct), nil
}

func (g *FakeGateway) DeleteAccount(_ context.Context, accountID string) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	if err := g.begin("DeleteAccount", accountID); err != nil {
		return err
	}
	if _, ok := g.accounts[accountID]; !ok {
		return notFound("accounts.delete", accountID)
	}
	delete(g.accounts, accountID)
	g.deleted[accountID] = true
	return nil
}

func (g *FakeGateway) CreateOnboardingLink(_ context.Context, req payments.OnboardingLinkRequest) (*payments.OnboardingLink, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	if err := g.begin("CreateOnboardingLink", req.AccountID); err != nil {
		return nil, err
	}
	if _, ok := g.accounts[req.AccountID]; !ok {
		return nil, notFound("account_links.create", req.AccountID)
	}
	g.links = append(g.links, req)
	return &payments.OnboardingLink{
		URL:       fmt.Sprintf("https://connect.example.com/setup/%s/%d", req.AccountID, len(g.links)),
		ExpiresAt: int64(1700000000 + len(g.links)),
	}, nil
}

func (g *FakeGateway) UpdateAccount(_ context.Context, accountID string, req payments.UpdateAccountRequest) (*payments.Account, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	if err := g.begin("UpdateAccount", accountID); err != nil {
		return nil, err
	}
	acct, ok := g.accounts[accountID]
	if !ok {
		return nil, notFound("accounts.update", accountID)
	}
	acct.Settings = payments.Settings{
		StatementDescriptor:      req.StatementDescriptor,
		StatementDescriptorKana:  req.StatementDescriptorKana,
		StatementDescriptorKanji: req.StatementDescriptorKanji,
		PayoutInterval:           req.PayoutInterval,
	}
	acct.BusinessProfile.URL = req.URL
	acct.BusinessProfile.ProductDescription = req.ProductDescription
	return copyAccount(acct), nil
}

func (g *FakeGateway) AddBankAccount(_ context.Context, accountID string, req payments.BankAccountRequest) (*payments.BankAccount, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	if err := g.begin("AddBankAccount", accountID); err != nil {
		return nil, err
	}
	acct, ok := g.accounts[accountID]
	if !ok {
		return nil, notFound("external_accounts.create", accountID)
	}
	g.tokens = append(g.tokens, req)
	last4 := req.AccountNumber
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	bank := payments.BankAccount{
		ID:                g.nextID("ba"),
		AccountHolderName: req.AccountHolderName,
		Last4:             last4,
		Currency:          req.Currency,
	}
	acct.BankAccounts = append(acct.BankAccounts, bank)
	return &bank, nil
}

// begin records the call and pops a queued failure. Callers hold the lock.
func (g *FakeGateway) begin(method, accountID string) error {
	g.calls = append(g.calls, Call{Method: method, AccountID: accountID})
	err, ok := g.failures[method]
	if !ok {
		return nil
	}
	delete(g.failures, method)
	if ue, ok := err.(*payments.UpstreamError); ok {
		return payments.Upstream(ue)
	}
	return err
}

func (g *FakeGateway) nextID(prefix string) string {
	g.seq++
	return fmt.Sprintf("%s_fake%04d", prefix, g.seq)
}

func notFound(operation, accountID string) error {
	return payments.Upstream(&payments.UpstreamError{
		Operation:  operation,
		Code:       "resource_missing",
		Message:    fmt.Sprintf("No such account: '%s'", accountID),
		StatusCode: 404,
	})
}

func copyAccount(a *payments.Account) *payments.Account {
	c := *a
	c.Requirements.EventuallyDue = append([]string(nil), a.Requirements.EventuallyDue...)
	c.Requirements.CurrentlyDue = append([]string(nil), a.Requirements.CurrentlyDue...)
	c.BankAccounts = append([]payments.BankAccount(nil), a.BankAccounts...)
	return &c
}
