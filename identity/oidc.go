package identity

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

var _ Provider = (*OIDCProvider)(nil)

type OIDCConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	LogoutPath   string // e.g. "/v2/logout"
}

// OIDCProvider discovers the provider on first use, so the server can start
// while the identity provider is unreachable.
type OIDCProvider struct {
	cfg OIDCConfig

	mu           sync.Mutex
	provider     *oidc.Provider
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

func NewOIDCProvider(cfg OIDCConfig) *OIDCProvider {
	return &OIDCProvider{cfg: cfg}
}

func (p *OIDCProvider) discover(ctx context.Context) (*oidc.Provider, *oauth2.Config, *oidc.IDTokenVerifier, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.provider != nil {
		return p.provider, p.oauth2Config, p.verifier, nil
	}

	provider, err := oidc.NewProvider(ctx, p.cfg.Issuer)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("[identity discover] failed to create OIDC provider: %w", err)
	}
	p.provider = provider
	p.oauth2Config = &oauth2.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  p.cfg.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	p.verifier = provider.Verifier(&oidc.Config{ClientID: p.cfg.ClientID})
	return p.provider, p.oauth2Config, p.verifier, nil
}

func (p *OIDCProvider) AuthCodeURL(ctx context.Context, state, nonce, codeVerifier string) (string, error) {
	_, cfg, _, err := p.discover(ctx)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state, oidc.Nonce(nonce), oauth2.S256ChallengeOption(codeVerifier)), nil
}

func (p *OIDCProvider) Exchange(ctx context.Context, code, codeVerifier, nonce string) (*Identity, error) {
	provider, cfg, verifier, err := p.discover(ctx)
	if err != nil {
		return nil, err
	}

	token, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("[identity Exchange] token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, ErrNoIDToken
	}
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("[identity Exchange] ID token verification failed: %w", err)
	}
	if idToken.Nonce != nonce {
		return nil, ErrNonceMismatch
	}

	userInfo, err := provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("[identity Exchange] userinfo failed: %w", err)
	}
	claims := map[string]any{}
	if err := userInfo.Claims(&claims); err != nil {
		return nil, fmt.Errorf("[identity Exchange] failed to extract claims: %w", err)
	}
	if sub, _ := claims["sub"].(string); sub != idToken.Subject {
		return nil, fmt.Errorf("[identity Exchange] userinfo subject %q does not match id token subject %q", sub, idToken.Subject)
	}
	return FromClaims(claims), nil
}

// LogoutURL builds an Auth0-style logout URL: <issuer><logout path>?returnTo=...&client_id=...
func (p *OIDCProvider) LogoutURL(returnTo string) string {
	params := url.Values{}
	params.Set("returnTo", returnTo)
	params.Set("client_id", p.cfg.ClientID)
	return strings.TrimSuffix(p.cfg.Issuer, "/") + p.cfg.LogoutPath + "?" + params.Encode()
}
