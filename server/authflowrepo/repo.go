package authflowrepo

import (
	"errors"
	"time"
)

var (
	ErrStateNotFound = errors.New("state not found")
	ErrStateExpired  = errors.New("state expired")
)

// AuthFlowState is what the login redirect leaves behind for the callback,
// keyed by the OAuth state parameter.
type AuthFlowState struct {
	CodeVerifier string
	Nonce        string
	ReturnURL    string
	CreatedAt    time.Time
}

type Repo interface {
	Upsert(state string, authState *AuthFlowState) error
	// Take returns the state and removes it, so a state can be redeemed once.
	Take(state string) (*AuthFlowState, error)
}
