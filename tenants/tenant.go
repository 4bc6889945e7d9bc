package tenants

import (
	"sort"
	"time"
)

// Tenant is an organisation owning at most one connected payments account and a set of projects.
type Tenant struct {
	ID              string             `json:"id"`
	Name            string             `json:"name,omitempty"`
	StripeAccountID string             `json:"stripe_acct_id,omitempty"`
	ProjectList     map[string]Project `json:"project_list,omitempty"`
	Version         int64              `json:"version"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Project is free-form project metadata keyed by project name.
type Project map[string]any

func (t *Tenant) HasAccount() bool {
	return t.StripeAccountID != ""
}

// ProjectNames returns the project names in a stable order.
func (t *Tenant) ProjectNames() []string {
	names := make([]string, 0, len(t.ProjectList))
	for name := range t.ProjectList {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
