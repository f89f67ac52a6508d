package identity

// Caller is the authenticated identity issuing a request.
// TenantID is nil for callers without a company affiliation.
type Caller struct {
	UserID   int64
	Username string
	Role     Role
	TenantID *int64
}

// NewCaller builds a caller; tenantID <= 0 means no affiliation.
func NewCaller(userID int64, username string, role Role, tenantID int64) Caller {
	c := Caller{UserID: userID, Username: username, Role: role}
	if tenantID > 0 {
		id := tenantID
		c.TenantID = &id
	}
	return c
}

// HasTenant reports whether the caller is linked to a company
func (c Caller) HasTenant() bool {
	return c.TenantID != nil
}

// CanAccessTenant reports whether the caller may read data of the given tenant.
func (c Caller) CanAccessTenant(tenantID int64) bool {
	switch c.Role {
	case RoleChiefAdmin:
		return true
	case RoleTenantAdmin, RoleTenantUser:
		return c.TenantID != nil && *c.TenantID == tenantID
	default:
		return false
	}
}

// IsChiefAdmin reports whether the caller spans all tenants
func (c Caller) IsChiefAdmin() bool {
	return c.Role == RoleChiefAdmin
}
