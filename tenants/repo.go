package tenants

import "context"

type Repo interface {
	Upsert(ctx context.Context, tenant *Tenant) error
	Get(ctx context.Context, tenantID string) (*Tenant, error)
	List(ctx context.Context, offset, limit int) ([]*Tenant, error)
	Delete(ctx context.Context, tenantID string) error

	// LinkAccount sets the tenant's account id only if none is linked yet.
	// Linking the id that is already stored is a no-op. Linking a different
	// id fails with errors.ErrAccountAlreadyLinked and returns the stored tenant.
	LinkAccount(ctx context.Context, tenantID, accountID string) (*Tenant, error)
}
