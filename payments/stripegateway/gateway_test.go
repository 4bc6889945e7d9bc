package stripegateway_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
	"github.com/jrsteele09/connect-onboarding/payments"
	"github.com/jrsteele09/connect-onboarding/payments/stripegateway"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const accountJSON = `{
  "id": "acct_T2",
  "object": "account",
  "business_type": "company",
  "country": "JP",
  "charges_enabled": false,
  "payouts_enabled": false,
  "requirements": {"eventually_due": ["individual.dob", "external_account"], "currently_due": []},
  "business_profile": {"url": "https://shop.example.com", "product_description": ""},
  "settings": {
    "payments": {"statement_descriptor": "SHOP", "statement_descriptor_kana": "ｼｮｯﾌﾟ", "statement_descriptor_kanji": "店"},
    "payouts": {"schedule": {"interval": "manual"}}
  },
  "external_accounts": {"object": "list", "data": [
    {"id": "ba_1", "object": "bank_account", "account_holder_name": "Yamada Taro", "bank_name": "MIZUHO", "last4": "6789", "currency": "jpy"}
  ]}
}`

// fakeStripe records form bodies per path and replies with canned JSON.
type fakeStripe struct {
	mu    sync.Mutex
	forms map[string]map[string]string
}

func (f *fakeStripe) record(r *http.Request) {
	_ = r.ParseForm()
	values := map[string]string{}
	for k := range r.PostForm {
		values[k] = r.PostForm.Get(k)
	}
	f.mu.Lock()
	f.forms[r.Method+" "+r.URL.Path] = values
	f.mu.Unlock()
}

func (f *fakeStripe) form(key string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forms[key]
}

func newGateway(t *testing.T) (*stripegateway.Gateway, *fakeStripe) {
	t.Helper()
	fs := &fakeStripe{forms: map[string]map[string]string{}}
	mux := http.NewServeMux()
	reply := func(status int, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fs.record(r)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			fmt.Fprint(w, body)
		}
	}
	mux.HandleFunc("GET /v1/accounts/acct_T2", reply(http.StatusOK, accountJSON))
	mux.HandleFunc("GET /v1/accounts/acct_missing", reply(http.StatusNotFound,
		`{"error": {"type": "invalid_request_error", "code": "resource_missing", "message": "No such account: 'acct_missing'"}}`))
	mux.HandleFunc("POST /v1/accounts", reply(http.StatusOK, `{"id": "acct_new", "object": "account", "country": "JP", "requirements": {"eventually_due": ["business_type"]}}`))
	mux.HandleFunc("POST /v1/accounts/acct_T2", reply(http.StatusOK, accountJSON))
	mux.HandleFunc("DELETE /v1/accounts/acct_new", reply(http.StatusOK, `{"id": "acct_new", "object": "account", "deleted": true}`))
	mux.HandleFunc("POST /v1/account_links", reply(http.StatusOK, `{"object": "account_link", "url": "https://connect.stripe.com/setup/c/acct_new/abc", "expires_at": 1700000300}`))
	mux.HandleFunc("POST /v1/tokens", reply(http.StatusOK, `{"id": "btok_1", "object": "token", "type": "bank_account"}`))
	mux.HandleFunc("POST /v1/accounts/acct_T2/external_accounts", reply(http.StatusOK,
		`{"id": "ba_2", "object": "bank_account", "account_holder_name": "Yamada Hanako", "bank_name": "MUFG", "last4": "4321", "currency": "jpy"}`))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gw := stripegateway.New(stripegateway.Options{
		APIKey:     "sk_test_123",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Logger:     zerolog.Nop(),
	})
	return gw, fs
}

func TestGateway_GetAccount(t *testing.T) {
	gw, _ := newGateway(t)

	acct, err := gw.GetAccount(context.Background(), "acct_T2")
	require.NoError(t, err)
	require.Equal(t, "acct_T2", acct.ID)
	require.Equal(t, payments.BusinessTypeCompany, acct.BusinessType)
	require.Equal(t, []string{"individual.dob", "external_account"}, acct.Requirements.EventuallyDue)
	require.Equal(t, "individual.dob", payments.StatusOf(acct))
	require.Equal(t, "SHOP", acct.Settings.StatementDescriptor)
	require.Equal(t, "店", acct.Settings.StatementDescriptorKanji)
	require.Equal(t, payments.PayoutIntervalManual, acct.Settings.PayoutInterval)
	require.Equal(t, "https://shop.example.com", acct.BusinessProfile.URL)
	require.Len(t, acct.BankAccounts, 1)
	require.Equal(t, "6789", acct.BankAccounts[0].Last4)
}

func TestGateway_GetAccountMissing(t *testing.T) {
	gw, _ := newGateway(t)

	_, err := gw.GetAccount(context.Background(), "acct_missing")
	require.Error(t, err)
	require.Equal(t, apperrors.KindAccountNotFound, apperrors.KindOf(err))

	var upstream *payments.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, "resource_missing", upstream.Code)
	require.Equal(t, http.StatusNotFound, upstream.StatusCode)
	require.Contains(t, upstream.Message, "No such account")
}

func TestGateway_CreateAccountAndLink(t *testing.T) {
	ctx := context.Background()
	gw, fs := newGateway(t)

	acct, err := gw.CreateAccount(ctx, payments.CreateAccountRequest{
		TenantID:     "T1",
		Country:      "JP",
		Type:         "custom",
		Capabilities: []string{"card_payments", "transfers", "jcb_payments"},
	})
	require.NoError(t, err)
	require.Equal(t, "acct_new", acct.ID)

	form := fs.form("POST /v1/accounts")
	require.Equal(t, "JP", form["country"])
	require.Equal(t, "custom", form["type"])
	require.Equal(t, "true", form["capabilities[card_payments][requested]"])
	require.Equal(t, "true", form["capabilities[transfers][requested]"])
	require.Equal(t, "true", form["capabilities[jcb_payments][requested]"])
	require.Equal(t, "T1", form["metadata[tenant_id]"])

	link, err := gw.CreateOnboardingLink(ctx, payments.OnboardingLinkRequest{
		AccountID:  acct.ID,
		RefreshURL: "https://app.example.com/custom_form/detail",
		ReturnURL:  "https://app.example.com/custom_form/detail",
		Type:       "account_onboarding",
		Collect:    "eventually_due",
	})
	require.NoError(t, err)
	require.Equal(t, "https://connect.stripe.com/setup/c/acct_new/abc", link.URL)
	require.Equal(t, int64(1700000300), link.ExpiresAt)

	form = fs.form("POST /v1/account_links")
	require.Equal(t, "acct_new", form["account"])
	require.Equal(t, "account_onboarding", form["type"])
	require.Equal(t, "eventually_due", form["collect"])

	require.NoError(t, gw.DeleteAccount(ctx, acct.ID))
}

func TestGateway_UpdateAccount(t *testing.T) {
	gw, fs := newGateway(t)

	_, err := gw.UpdateAccount(context.Background(), "acct_T2", payments.UpdateAccountRequest{
		StatementDescriptor:      "SHOP",
		StatementDescriptorKana:  "ｼｮｯﾌﾟ",
		StatementDescriptorKanji: "店",
		URL:                      "https://shop.example.com",
		PayoutInterval:           payments.PayoutIntervalManual,
	})
	require.NoError(t, err)

	form := fs.form("POST /v1/accounts/acct_T2")
	require.Equal(t, "SHOP", form["settings[payments][statement_descriptor]"])
	require.Equal(t, "manual", form["settings[payouts][schedule][interval]"])
	require.Equal(t, "https://shop.example.com", form["business_profile[url]"])
}

func TestGateway_AddBankAccount(t *testing.T) {
	gw, fs := newGateway(t)

	bank, err := gw.AddBankAccount(context.Background(), "acct_T2", payments.BankAccountRequest{
		Country:           "JP",
		Currency:          "jpy",
		AccountHolderName: "Yamada Hanako",
		AccountHolderType: payments.BusinessTypeCompany,
		RoutingNumber:     "1100000",
		AccountNumber:     "0001234321",
	})
	require.NoError(t, err)
	require.Equal(t, "ba_2", bank.ID)
	require.Equal(t, "4321", bank.Last4)

	token := fs.form("POST /v1/tokens")
	require.Equal(t, "company", token["bank_account[account_holder_type]"])
	require.Equal(t, "1100000", token["bank_account[routing_number]"])
	require.Equal(t, "jpy", token["bank_account[currency]"])

	attach := fs.form("POST /v1/accounts/acct_T2/external_accounts")
	require.Equal(t, "btok_1", attach["external_account"])
}
