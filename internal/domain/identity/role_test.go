package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    Role
		wantErr bool
	}{
		{name: "chief admin", code: "ADMIN_CHEFE", want: RoleChiefAdmin},
		{name: "tenant admin", code: "ADMIN_EMPRESA", want: RoleTenantAdmin},
		{name: "tenant user", code: "USUARIO_EMPRESA", want: RoleTenantUser},
		{name: "lowercase with spaces", code: "  admin_chefe ", want: RoleChiefAdmin},
		{name: "unknown", code: "SUPERUSER", wantErr: true},
		{name: "empty", code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := ParseRole(tt.code)
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, role.IsValid())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
			assert.True(t, role.IsValid())
		})
	}
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "ADMIN_CHEFE", RoleChiefAdmin.String())
	assert.Equal(t, "ADMIN_EMPRESA", RoleTenantAdmin.String())
	assert.Equal(t, "USUARIO_EMPRESA", RoleTenantUser.String())
	assert.Equal(t, "UNKNOWN", Role(0).String())
}

func TestNewCaller(t *testing.T) {
	t.Run("with tenant", func(t *testing.T) {
		c := NewCaller(1, "ana", RoleTenantUser, 7)
		require.True(t, c.HasTenant())
		assert.Equal(t, int64(7), *c.TenantID)
	})

	t.Run("without tenant", func(t *testing.T) {
		c := NewCaller(1, "root", RoleChiefAdmin, 0)
		assert.False(t, c.HasTenant())
		assert.Nil(t, c.TenantID)
	})
}

func TestCaller_CanAccessTenant(t *testing.T) {
	tests := []struct {
		name   string
		caller Caller
		tenant int64
		want   bool
	}{
		{name: "chief admin any tenant", caller: NewCaller(1, "root", RoleChiefAdmin, 0), tenant: 42, want: true},
		{name: "tenant admin own tenant", caller: NewCaller(2, "adm", RoleTenantAdmin, 3), tenant: 3, want: true},
		{name: "tenant admin other tenant", caller: NewCaller(2, "adm", RoleTenantAdmin, 3), tenant: 4, want: false},
		{name: "tenant user own tenant", caller: NewCaller(3, "usr", RoleTenantUser, 3), tenant: 3, want: true},
		{name: "tenant user without tenant", caller: NewCaller(3, "usr", RoleTenantUser, 0), tenant: 3, want: false},
		{name: "invalid role", caller: Caller{Role: Role(99)}, tenant: 3, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.caller.CanAccessTenant(tt.tenant))
		})
	}
}
