// Package fakeidp is an in-memory identity.Provider for tests.
package fakeidp

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/jrsteele09/connect-onboarding/identity"
)

var _ identity.Provider = (*FakeProvider)(nil)

const AuthorizeURL = "https://idp.example.com/authorize"

type FakeProvider struct {
	mu    sync.Mutex
	codes map[string]grant
}

type grant struct {
	identity *identity.Identity
	nonce    string // empty accepts the nonce from the login request
}

func New() *FakeProvider {
	return &FakeProvider{codes: make(map[string]grant)}
}

// IssueCode registers a one-time authorization code that signs in as id.
func (f *FakeProvider) IssueCode(code string, id *identity.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[code] = grant{identity: id}
}

// IssueCodeWithNonce registers a code whose ID token carries the given nonce.
func (f *FakeProvider) IssueCodeWithNonce(code, nonce string, id *identity.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[code] = grant{identity: id, nonce: nonce}
}

func (f *FakeProvider) AuthCodeURL(_ context.Context, state, nonce, _ string) (string, error) {
	q := url.Values{}
	q.Set("state", state)
	q.Set("nonce", nonce)
	q.Set("code_challenge_method", "S256")
	return AuthorizeURL + "?" + q.Encode(), nil
}

func (f *FakeProvider) Exchange(_ context.Context, code, _ string, nonce string) (*identity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.codes[code]
	if !ok {
		return nil, errors.New("invalid_grant")
	}
	delete(f.codes, code)
	if g.nonce != "" && g.nonce != nonce {
		return nil, identity.ErrNonceMismatch
	}
	return g.identity, nil
}

func (f *FakeProvider) LogoutURL(returnTo string) string {
	return "https://idp.example.com/v2/logout?" + url.Values{"returnTo": {returnTo}}.Encode()
}
