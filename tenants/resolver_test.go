package tenants_test

import (
	"context"
	"testing"

	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
	"github.com/jrsteele09/connect-onboarding/tenants"
	tenantrepofakes "github.com/jrsteele09/connect-onboarding/tenants/repofakes"
	"github.com/stretchr/testify/require"
)

const claimNamespace = "https://connect.example.com"

func claimsFor(tenantID any) map[string]any {
	return map[string]any{
		"sub": "auth0|user-1",
		claimNamespace + "/app_metadata": map[string]any{"tenant": tenantID},
	}
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	repo := tenantrepofakes.NewFakeTenantRepo()
	require.NoError(t, repo.Upsert(ctx, &tenants.Tenant{ID: "T1", StripeAccountID: "acct_1"}))
	resolver := tenants.NewResolver(repo, claimNamespace)

	t.Run("known tenant", func(t *testing.T) {
		tenant, err := resolver.Resolve(ctx, claimsFor("T1"))
		require.NoError(t, err)
		require.Equal(t, "T1", tenant.ID)
		require.Equal(t, "acct_1", tenant.StripeAccountID)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, claimsFor("T9"))
		require.ErrorIs(t, err, apperrors.ErrTenantNotFound)
		require.Equal(t, apperrors.KindTenantNotFound, apperrors.KindOf(err))
	})
}

func TestResolver_MalformedClaims(t *testing.T) {
	resolver := tenants.NewResolver(tenantrepofakes.NewFakeTenantRepo(), claimNamespace)

	tests := []struct {
		name   string
		claims map[string]any
	}{
		{"no claims", nil},
		{"missing app_metadata", map[string]any{"sub": "x"}},
		{"app_metadata not an object", map[string]any{claimNamespace + "/app_metadata": "T1"}},
		{"missing tenant", map[string]any{claimNamespace + "/app_metadata": map[string]any{}}},
		{"empty tenant", claimsFor("")},
		{"non-string tenant", claimsFor(42)},
		{"other namespace", map[string]any{"https://other/app_metadata": map[string]any{"tenant": "T1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tt.claims)
			require.ErrorIs(t, err, apperrors.ErrInvalidTenantClaim)
			require.Equal(t, apperrors.KindTenantNotFound, apperrors.KindOf(err))
		})
	}
}

func TestFakeTenantRepo_LinkAccount(t *testing.T) {
	ctx := context.Background()
	repo := tenantrepofakes.NewFakeTenantRepo()
	require.NoError(t, repo.Upsert(ctx, &tenants.Tenant{ID: "T1"}))

	_, err := repo.LinkAccount(ctx, "T1", "acct_1")
	require.NoError(t, err)

	stored, err := repo.LinkAccount(ctx, "T1", "acct_2")
	require.ErrorIs(t, err, apperrors.ErrAccountAlreadyLinked)
	require.Equal(t, "acct_1", stored.StripeAccountID)
}

func TestTenant_ProjectNames(t *testing.T) {
	tenant := tenants.Tenant{ProjectList: map[string]tenants.Project{"zeta": nil, "alpha": nil, "mid": nil}}
	require.Equal(t, []string{"alpha", "mid", "zeta"}, tenant.ProjectNames())
}
