package report

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gestor/backend/internal/domain/identity"
	"github.com/gestor/backend/internal/domain/ledger"
	"github.com/gestor/backend/internal/domain/shared"
)

// TenantSelector is the optional tenant requested by the caller.
// Valid is false when the selector was absent or a non-numeric marker such as "todos".
type TenantSelector struct {
	TenantID int64
	Valid    bool
}

// ParseTenantSelector interprets the raw tenant_id query value
func ParseTenantSelector(raw string) TenantSelector {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return TenantSelector{}
	}
	return TenantSelector{TenantID: id, Valid: true}
}

// Scope is the set of tenants a report aggregates over.
// A consolidated scope spans every currently active tenant; otherwise TenantID is set.
type Scope struct {
	Consolidated bool
	TenantID     *int64
}

// SingleTenant returns a scope restricted to one tenant
func SingleTenant(id int64) Scope {
	return Scope{TenantID: &id}
}

// AllActiveTenants returns the consolidated scope
func AllActiveTenants() Scope {
	return Scope{Consolidated: true}
}

// TenantLookup finds tenants by id; it returns shared.ErrNotFound for unknown ids.
type TenantLookup interface {
	FindByID(ctx context.Context, id int64) (*ledger.Tenant, error)
}

// ScopeResolver decides which tenants a caller's report covers
type ScopeResolver struct {
	tenants TenantLookup
}

// NewScopeResolver creates a ScopeResolver
func NewScopeResolver(tenants TenantLookup) *ScopeResolver {
	return &ScopeResolver{tenants: tenants}
}

// Resolve applies the tenant scoping rules for the caller's role.
func (r *ScopeResolver) Resolve(ctx context.Context, caller identity.Caller, sel TenantSelector) (Scope, error) {
	switch caller.Role {
	case identity.RoleTenantAdmin, identity.RoleTenantUser:
		if !caller.HasTenant() {
			return Scope{}, shared.ErrNoTenantContext
		}
		return SingleTenant(*caller.TenantID), nil

	case identity.RoleChiefAdmin:
		if !sel.Valid {
			return AllActiveTenants(), nil
		}
		if _, err := r.tenants.FindByID(ctx, sel.TenantID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return Scope{}, shared.ErrTenantNotFound
			}
			return Scope{}, err
		}
		if !caller.CanAccessTenant(sel.TenantID) {
			return Scope{}, shared.ErrTenantForbidden
		}
		return SingleTenant(sel.TenantID), nil

	default:
		return Scope{}, shared.ErrUnknownRole
	}
}
