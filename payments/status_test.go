package payments_test

import (
	"context"
	"testing"

	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
	"github.com/jrsteele09/connect-onboarding/payments"
	"github.com/jrsteele09/connect-onboarding/payments/fakegateway"
	"github.com/jrsteele09/connect-onboarding/tenants"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		due  []string
		want string
	}{
		{"nothing due", nil, payments.StatusComplete},
		{"empty list", []string{}, payments.StatusComplete},
		{"single requirement", []string{"individual.dob"}, "individual.dob"},
		{"first requirement wins", []string{"external_account", "individual.dob", "tos_acceptance.date"}, "external_account"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := &payments.Account{Requirements: payments.Requirements{EventuallyDue: tt.due}}
			require.Equal(t, tt.want, payments.StatusOf(acct))
		})
	}
}

func TestReadState_Unregistered(t *testing.T) {
	gw := fakegateway.New()
	state, err := payments.ReadState(context.Background(), gw, &tenants.Tenant{ID: "T1"})
	require.NoError(t, err)
	require.False(t, state.Registered)
	require.Equal(t, payments.StatusUnregistered, state.Status)
	require.Empty(t, gw.Calls(), "unregistered tenants must not reach the payments API")
}

func TestReadState_Registered(t *testing.T) {
	ctx := context.Background()
	gw := fakegateway.New()
	acct := gw.AddAccount(&payments.Account{
		BusinessType: payments.BusinessTypeIndividual,
		Requirements: payments.Requirements{EventuallyDue: []string{"individual.dob"}},
	})

	state, err := payments.ReadState(ctx, gw, &tenants.Tenant{ID: "T2", StripeAccountID: acct.ID})
	require.NoError(t, err)
	require.True(t, state.Registered)
	require.Equal(t, "individual.dob", state.Status)
	require.False(t, state.IsComplete())

	gw.SetRequirements(acct.ID, nil)
	state, err = payments.ReadState(ctx, gw, &tenants.Tenant{ID: "T2", StripeAccountID: acct.ID})
	require.NoError(t, err)
	require.True(t, state.IsComplete())

	// Complete is not sticky.
	gw.SetRequirements(acct.ID, []string{"company.tax_id"})
	state, err = payments.ReadState(ctx, gw, &tenants.Tenant{ID: "T2", StripeAccountID: acct.ID})
	require.NoError(t, err)
	require.Equal(t, "company.tax_id", state.Status)
}

func TestReadState_UpstreamFailure(t *testing.T) {
	gw := fakegateway.New()
	gw.FailNext("GetAccount", &payments.UpstreamError{Operation: "accounts.get", Code: "api_connection_error", Message: "unreachable", StatusCode: 0})

	_, err := payments.ReadState(context.Background(), gw, &tenants.Tenant{ID: "T1", StripeAccountID: "acct_x"})
	require.Error(t, err)
	require.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
	require.ErrorIs(t, err, apperrors.ErrUpstreamError)

	var upstream *payments.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, "api_connection_error", upstream.Code)
}

func TestUpstream_Kinds(t *testing.T) {
	require.Equal(t, apperrors.KindAccountNotFound, apperrors.KindOf(payments.Upstream(&payments.UpstreamError{Operation: "accounts.get", StatusCode: 404})))
	require.Equal(t, apperrors.KindAccountNotFound, apperrors.KindOf(payments.Upstream(&payments.UpstreamError{Operation: "accounts.get", Code: "account_invalid", StatusCode: 403})))
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(payments.Upstream(&payments.UpstreamError{Operation: "tokens.create", Code: "routing_number_invalid", StatusCode: 400})))
	require.Equal(t, apperrors.KindUpstream, apperrors.KindOf(payments.Upstream(&payments.UpstreamError{Operation: "accounts.create", Code: "rate_limit", StatusCode: 429})))
}

func TestAccount_HolderType(t *testing.T) {
	require.Equal(t, payments.BusinessTypeCompany, (&payments.Account{BusinessType: "company"}).HolderType())
	require.Equal(t, payments.BusinessTypeIndividual, (&payments.Account{BusinessType: "individual"}).HolderType())
	require.Equal(t, payments.BusinessTypeIndividual, (&payments.Account{}).HolderType())
}
