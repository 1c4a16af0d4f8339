package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"admin", RoleAdmin},
		{"Admin", RoleAdmin},
		{"ADMIN", RoleAdmin},
		{"administrator", RoleAdmin},
		{"Administrator", RoleAdmin},
		{" admin ", RoleAdmin},
		{"resident", RoleResident},
		{"Resident", RoleResident},
		{"", RoleResident},
		{"driver", RoleResident},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeRole(tc.raw), "raw %q", tc.raw)
	}
}

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdmin())
	assert.True(t, Role("Administrator").IsAdmin())
	assert.False(t, RoleResident.IsAdmin())
	assert.False(t, Role("").IsAdmin())
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleAdmin))
	assert.True(t, IsValidRole(RoleResident))
	assert.False(t, IsValidRole("manager"))
}
