// Package boltrepo stores tenant documents in a bbolt file, one JSON document per tenant id.
package boltrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
	"github.com/jrsteele09/connect-onboarding/tenants"
	bolt "go.etcd.io/bbolt"
)

var tenantsBucket = []byte("tenantsv1")

var _ tenants.Repo = (*Repo)(nil)

type Repo struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens (or creates) the tenant store at path.
func Open(path string) (*Repo, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("[boltrepo Open] create data dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("[boltrepo Open] unable to open %s; is another instance running? %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tenantsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("[boltrepo Open] create bucket: %w", err)
	}
	return &Repo{db: db, now: time.Now}, nil
}

func (r *Repo) Close() error {
	return r.db.Close()
}

func (r *Repo) Get(ctx context.Context, tenantID string) (*tenants.Tenant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var t *tenants.Tenant
	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		t, err = findTenant(tx, tenantID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repo) Upsert(ctx context.Context, tenant *tenants.Tenant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tenant.ID == "" {
		return fmt.Errorf("[boltrepo Upsert] tenant id is required: %w", apperrors.ErrInvalidInput)
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		stored := *tenant
		stored.Version = 0
		if existing, err := findTenant(tx, tenant.ID); err == nil {
			stored.Version = existing.Version
		} else if !apperrors.Is(err, apperrors.ErrTenantNotFound) {
			return err
		}
		stored.Version++
		stored.UpdatedAt = r.now().UTC()
		return putTenant(tx, &stored)
	})
}

func (r *Repo) Delete(ctx context.Context, tenantID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(tenantsBucket).Delete([]byte(tenantID))
	})
}

func (r *Repo) List(ctx context.Context, offset, limit int) ([]*tenants.Tenant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []*tenants.Tenant
	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(tenantsBucket).Cursor()
		i := 0
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if i < offset {
				i++
				continue
			}
			if limit > 0 && len(list) >= limit {
				break
			}
			var t tenants.Tenant
			if err := json.Unmarshal(v, &t); err != nil {
				return fmt.Errorf("[boltrepo List] decode %s: %w", k, err)
			}
			list = append(list, &t)
			i++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// LinkAccount performs the read-check-write inside one read-write transaction.
// bbolt serialises writers, so concurrent links for one tenant cannot both succeed.
func (r *Repo) LinkAccount(ctx context.Context, tenantID, accountID string) (*tenants.Tenant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var result *tenants.Tenant
	var linkErr error
	err := r.db.Update(func(tx *bolt.Tx) error {
		t, err := findTenant(tx, tenantID)
		if err != nil {
			return err
		}
		result = t
		switch t.StripeAccountID {
		case accountID:
			return nil
		case "":
		default:
			linkErr = apperrors.ErrAccountAlreadyLinked
			return nil
		}
		t.StripeAccountID = accountID
		t.Version++
		t.UpdatedAt = r.now().UTC()
		return putTenant(tx, t)
	})
	if err != nil {
		return nil, err
	}
	return result, linkErr
}

func findTenant(tx *bolt.Tx, tenantID string) (*tenants.Tenant, error) {
	v := tx.Bucket(tenantsBucket).Get([]byte(tenantID))
	if len(v) == 0 {
		return nil, fmt.Errorf("[boltrepo] %s: %w", tenantID, apperrors.ErrTenantNotFound)
	}
	var t tenants.Tenant
	if err := json.Unmarshal(v, &t); err != nil {
		return nil, fmt.Errorf("[boltrepo] decode %s: %w", tenantID, err)
	}
	return &t, nil
}

func putTenant(tx *bolt.Tx, t *tenants.Tenant) error {
	v, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return tx.Bucket(tenantsBucket).Put([]byte(t.ID), v)
}
