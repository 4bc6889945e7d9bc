package tenants

import (
	"context"
	"fmt"

	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
)

const tenantClaimMember = "tenant"

// Resolver maps the tenant affiliation claim of an authenticated user to a tenant record.
type Resolver struct {
	repo      Repo
	claimName string
}

// NewResolver builds a resolver reading "<namespace>/app_metadata" from the identity claims.
func NewResolver(repo Repo, claimNamespace string) *Resolver {
	return &Resolver{
		repo:      repo,
		claimName: claimNamespace + "/app_metadata",
	}
}

// TenantID extracts the tenant id from the user's claims.
func (r *Resolver) TenantID(claims map[string]any) (string, error) {
	const op = "tenants.TenantID"

	raw, ok := claims[r.claimName]
	if !ok || raw == nil {
		return "", apperrors.E(apperrors.KindTenantNotFound, op, fmt.Errorf("missing %s claim: %w", r.claimName, apperrors.ErrInvalidTenantClaim))
	}
	metadata, ok := raw.(map[string]any)
	if !ok {
		return "", apperrors.E(apperrors.KindTenantNotFound, op, fmt.Errorf("%s claim is not an object: %w", r.claimName, apperrors.ErrInvalidTenantClaim))
	}
	tenantID, ok := metadata[tenantClaimMember].(string)
	if !ok || tenantID == "" {
		return "", apperrors.E(apperrors.KindTenantNotFound, op, fmt.Errorf("%s claim has no tenant: %w", r.claimName, apperrors.ErrInvalidTenantClaim))
	}
	return tenantID, nil
}

// Resolve returns the tenant record the claims point at.
func (r *Resolver) Resolve(ctx context.Context, claims map[string]any) (*Tenant, error) {
	tenantID, err := r.TenantID(claims)
	if err != nil {
		return nil, err
	}
	t, err := r.repo.Get(ctx, tenantID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTenantNotFound) {
			return nil, apperrors.E(apperrors.KindTenantNotFound, "tenants.Resolve", err)
		}
		return nil, apperrors.E(apperrors.KindInternal, "tenants.Resolve", err)
	}
	return t, nil
}
