package identity_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/connect-onboarding/identity"
	"github.com/stretchr/testify/require"
)

const testClientID = "client-123"

type testIssuer struct {
	server  *httptest.Server
	key     *rsa.PrivateKey
	nonce   string
	subject string
	form    url.Values
}

func newTestIssuer(t *testing.T) *testIssuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	iss := &testIssuer{key: key, subject: "auth0|user-1"}
	mux := http.NewServeMux()
	iss.server = httptest.NewServer(mux)
	t.Cleanup(iss.server.Close)

	mux.HandleFunc("GET /.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"issuer":                                iss.server.URL,
			"authorization_endpoint":                iss.server.URL + "/authorize",
			"token_endpoint":                        iss.server.URL + "/oauth/token",
			"userinfo_endpoint":                     iss.server.URL + "/userinfo",
			"jwks_uri":                              iss.server.URL + "/.well-known/jwks.json",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	mux.HandleFunc("GET /.well-known/jwks.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"keys": []map[string]string{{
			"kty": "RSA",
			"alg": "RS256",
			"use": "sig",
			"kid": "k1",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   "AQAB",
		}}})
	})
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		iss.form = r.PostForm
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"iss":   iss.server.URL,
			"aud":   testClientID,
			"sub":   iss.subject,
			"nonce": iss.nonce,
			"iat":   time.Now().Unix(),
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		token.Header["kid"] = "k1"
		signed, err := token.SignedString(key)
		require.NoError(t, err)
		writeJSON(w, map[string]any{
			"access_token": "at-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     signed,
		})
	})
	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]any{
			"sub":     iss.subject,
			"name":    "Hanako Yamada",
			"picture": "https://img.example.com/h.png",
			"email":   "hanako@example.com",
			"https://connect-onboarding/app_metadata": map[string]any{"tenant": "T1"},
		})
	})
	return iss
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newProvider(iss *testIssuer) *identity.OIDCProvider {
	return identity.NewOIDCProvider(identity.OIDCConfig{
		Issuer:       iss.server.URL,
		ClientID:     testClientID,
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:3000/callback",
		LogoutPath:   "/v2/logout",
	})
}

func TestOIDCProvider_AuthCodeURL(t *testing.T) {
	iss := newTestIssuer(t)
	p := newProvider(iss)

	raw, err := p.AuthCodeURL(context.Background(), "state-1", "nonce-1", "verifier-verifier-verifier-verifier-verifier")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "/authorize", u.Path)
	q := u.Query()
	require.Equal(t, "state-1", q.Get("state"))
	require.Equal(t, "nonce-1", q.Get("nonce"))
	require.Equal(t, "S256", q.Get("code_challenge_method"))
	require.NotEmpty(t, q.Get("code_challenge"))
	require.Equal(t, testClientID, q.Get("client_id"))
	require.Equal(t, "http://localhost:3000/callback", q.Get("redirect_uri"))
	require.Contains(t, q.Get("scope"), "openid")
}

func TestOIDCProvider_Exchange(t *testing.T) {
	iss := newTestIssuer(t)
	iss.nonce = "nonce-1"
	p := newProvider(iss)

	id, err := p.Exchange(context.Background(), "code-1", "the-verifier", "nonce-1")
	require.NoError(t, err)
	require.Equal(t, "auth0|user-1", id.Subject)
	require.Equal(t, "Hanako Yamada", id.Name)
	require.Equal(t, "https://img.example.com/h.png", id.Picture)
	require.Equal(t, "hanako@example.com", id.Email)
	require.Contains(t, id.Claims, "https://connect-onboarding/app_metadata")

	require.Equal(t, "code-1", iss.form.Get("code"))
	require.Equal(t, "the-verifier", iss.form.Get("code_verifier"))
}

func TestOIDCProvider_ExchangeRejectsNonceMismatch(t *testing.T) {
	iss := newTestIssuer(t)
	iss.nonce = "someone-elses-nonce"
	p := newProvider(iss)

	_, err := p.Exchange(context.Background(), "code-1", "the-verifier", "nonce-1")
	require.ErrorIs(t, err, identity.ErrNonceMismatch)
}

func TestOIDCProvider_DiscoveryFailure(t *testing.T) {
	p := identity.NewOIDCProvider(identity.OIDCConfig{Issuer: "http://127.0.0.1:1", ClientID: testClientID})
	_, err := p.AuthCodeURL(context.Background(), "s", "n", "v")
	require.Error(t, err)
}

func TestOIDCProvider_LogoutURL(t *testing.T) {
	p := identity.NewOIDCProvider(identity.OIDCConfig{
		Issuer:     "https://tenant.auth0.com/",
		ClientID:   testClientID,
		LogoutPath: "/v2/logout",
	})

	u, err := url.Parse(p.LogoutURL("http://localhost:3000"))
	require.NoError(t, err)
	require.Equal(t, "tenant.auth0.com", u.Host)
	require.Equal(t, "/v2/logout", u.Path)
	require.Equal(t, "http://localhost:3000", u.Query().Get("returnTo"))
	require.Equal(t, testClientID, u.Query().Get("client_id"))
}
