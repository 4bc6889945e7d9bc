package tenantrepofakes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
	"github.com/jrsteele09/connect-onboarding/tenants"
)

var _ tenants.Repo = (*FakeTenantRepo)(nil)

type FakeTenantRepo struct {
	tenants map[string]*tenants.Tenant
	lock    sync.RWMutex
	now     func() time.Time
}

func NewFakeTenantRepo() *FakeTenantRepo {
	return &FakeTenantRepo{
		tenants: make(map[string]*tenants.Tenant),
		now:     time.Now,
	}
}

func (tr *FakeTenantRepo) Upsert(_ context.Context, tenantData *tenants.Tenant) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	if tenantData.ID == "" {
		tenantData.ID = uuid.New().String()
	}
	stored := copyTenant(tenantData)
	if existing, ok := tr.tenants[stored.ID]; ok {
		stored.Version = existing.Version
	}
	stored.Version++
	stored.UpdatedAt = tr.now()
	tr.tenants[stored.ID] = stored
	return nil
}

func (tr *FakeTenantRepo) Delete(_ context.Context, tenantID string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	delete(tr.tenants, tenantID)
	return nil
}

func (tr *FakeTenantRepo) Get(_ context.Context, tenantID string) (*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	t, ok := tr.tenants[tenantID]
	if !ok {
		return nil, fmt.Errorf("[FakeTenantRepo Get] %s: %w", tenantID, apperrors.ErrTenantNotFound)
	}
	return copyTenant(t), nil
}

func (tr *FakeTenantRepo) List(_ context.Context, offset, limit int) ([]*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	list := make([]*tenants.Tenant, 0, len(tr.tenants))
	for _, t := range tr.tenants {
		list = append(list, copyTenant(t))
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})

	if offset >= len(list) {
		return nil, nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end], nil
}

func (tr *FakeTenantRepo) LinkAccount(_ context.Context, tenantID, accountID string) (*tenants.Tenant, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	t, ok := tr.tenants[tenantID]
	if !ok {
		return nil, fmt.Errorf("[FakeTenantRepo LinkAccount] %s: %w", tenantID, apperrors.ErrTenantNotFound)
	}
	if t.StripeAccountID == accountID {
		return copyTenant(t), nil
	}
	if t.StripeAccountID != "" {
		return copyTenant(t), apperrors.ErrAccountAlreadyLinked
	}
	t.StripeAccountID = accountID
	t.Version++
	t.UpdatedAt = tr.now()
	return copyTenant(t), nil
}

func copyTenant(t *tenants.Tenant) *tenants.Tenant {
	c := *t
	if t.ProjectList != nil {
		c.ProjectList = make(map[string]tenants.Project, len(t.ProjectList))
		for k, v := range t.ProjectList {
			c.ProjectList[k] = v
		}
	}
	return &c
}
