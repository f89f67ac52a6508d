// Package ledger holds the transactional records the reporting engine reads.
// The records are owned and written by the bookkeeping side of the system.
package ledger

import (
	"context"
	"time"
)

// Tenant is a company whose records are isolated from other companies
type Tenant struct {
	ID        int64
	Name      string
	Active    bool
	CreatedAt time.Time
}

// TenantRepository reads tenants
type TenantRepository interface {
	// FindByID returns shared.ErrNotFound when the tenant does not exist
	FindByID(ctx context.Context, id int64) (*Tenant, error)

	// ListActive returns active tenants ordered by name
	ListActive(ctx context.Context) ([]Tenant, error)

	// CountActiveUsers returns active user counts keyed by tenant id
	CountActiveUsers(ctx context.Context, tenantIDs []int64) (map[int64]int64, error)
}
