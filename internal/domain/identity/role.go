package identity

import (
	"fmt"
	"strings"
)

// Role is the closed set of caller roles. The zero value is invalid.
type Role int

const (
	roleUnknown Role = iota
	// RoleChiefAdmin manages every tenant in the installation
	RoleChiefAdmin
	// RoleTenantAdmin administers a single tenant
	RoleTenantAdmin
	// RoleTenantUser is a regular user bound to a single tenant
	RoleTenantUser
)

var roleNames = map[Role]string{
	RoleChiefAdmin:  "ADMIN_CHEFE",
	RoleTenantAdmin: "ADMIN_EMPRESA",
	RoleTenantUser:  "USUARIO_EMPRESA",
}

// ParseRole maps the persisted role code (as carried in access tokens) to a Role.
func ParseRole(code string) (Role, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for role, name := range roleNames {
		if name == code {
			return role, nil
		}
	}
	return roleUnknown, fmt.Errorf("unknown role %q", code)
}

// String returns the persisted role code
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsValid reports whether r is one of the declared roles
func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}
