// Package identity signs users in against an OpenID Connect provider.
package identity

import (
	"context"
	"errors"
)

var (
	ErrNonceMismatch = errors.New("id token nonce mismatch")
	ErrNoIDToken     = errors.New("no id_token in token response")
)

// Identity is the signed-in user as reported by the provider's userinfo endpoint.
type Identity struct {
	Subject string
	Name    string
	Picture string
	Email   string
	Claims  map[string]any
}

// Provider is the login surface the server needs from an identity provider.
type Provider interface {
	// AuthCodeURL builds the authorize redirect for an authorization code flow with PKCE.
	AuthCodeURL(ctx context.Context, state, nonce, codeVerifier string) (string, error)
	// Exchange redeems the code, verifies the ID token (including nonce) and loads userinfo.
	Exchange(ctx context.Context, code, codeVerifier, nonce string) (*Identity, error)
	// LogoutURL ends the provider session and returns the browser to returnTo.
	LogoutURL(returnTo string) string
}

// FromClaims builds an Identity from userinfo claims.
func FromClaims(claims map[string]any) *Identity {
	str := func(k string) string {
		v, _ := claims[k].(string)
		return v
	}
	return &Identity{
		Subject: str("sub"),
		Name:    str("name"),
		Picture: str("picture"),
		Email:   str("email"),
		Claims:  claims,
	}
}
