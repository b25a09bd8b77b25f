package services

import (
	"testing"

	"wmsconsole/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermission_Membership(t *testing.T) {
	roles := []models.Role{models.RoleAdmin, models.RoleManager, models.RoleOperator}
	sets := [][]models.Role{
		{},
		{models.RoleAdmin},
		{models.RoleAdmin, models.RoleManager},
		{models.RoleOperator},
		{models.RoleManager, models.RoleOperator},
		roles,
	}

	for _, role := range roles {
		for _, allowed := range sets {
			want := false
			for _, a := range allowed {
				if a == role {
					want = true
				}
			}
			assert.Equal(t, want, HasPermission(role, allowed...), "role %s in %v", role, allowed)
		}
	}
}

func TestHasPermission_EmptyRoleIsOperator(t *testing.T) {
	assert.True(t, HasPermission("", models.RoleOperator))
	assert.True(t, HasPermission("", models.RoleAdmin, models.RoleManager, models.RoleOperator))
	assert.False(t, HasPermission("", models.RoleAdmin, models.RoleManager))
	assert.False(t, HasPermission(""))
}

func TestHasPermission_UnknownRole(t *testing.T) {
	assert.False(t, HasPermission("auditor", models.RoleAdmin, models.RoleManager, models.RoleOperator))
	assert.True(t, HasPermission("auditor", "auditor"))
}

func TestRBACService_DefaultMatrix(t *testing.T) {
	rbac, err := NewRBACService(nil)
	require.NoError(t, err)

	assert.True(t, rbac.Can(models.RoleOperator, CapProductCreate))
	assert.True(t, rbac.Can(models.RoleOperator, CapProductArchive))
	assert.False(t, rbac.Can(models.RoleOperator, CapProductUpdate))
	assert.True(t, rbac.Can(models.RoleManager, CapProductUpdate))
	assert.False(t, rbac.Can(models.RoleManager, CapProductDelete))
	assert.True(t, rbac.Can(models.RoleAdmin, CapProductDelete))
	assert.False(t, rbac.Can(models.RoleManager, CapAuditView))
	assert.False(t, rbac.Can(models.RoleManager, CapInboundImport))
	assert.True(t, rbac.Can(models.RoleManager, CapOutboundUpdate))
	assert.True(t, rbac.Can("", CapCycleCountCreate))
	assert.False(t, rbac.Can(models.RoleAdmin, "warehouse:teleport"))
}

func TestRBACService_Capabilities(t *testing.T) {
	rbac, _ := NewRBACService(nil)

	caps := rbac.Capabilities(models.RoleOperator)

	assert.Equal(t, []string{
		CapCycleCountCreate,
		CapInboundCreate,
		CapOutboundCreate,
		CapProductArchive,
		CapProductCreate,
	}, caps)
	assert.Len(t, rbac.Capabilities(models.RoleAdmin), len(DefaultCapabilities()))
}

func TestRBACService_Overrides(t *testing.T) {
	rbac, err := NewRBACService(map[string][]string{CapProductUpdate: {"admin"}})
	require.NoError(t, err)

	assert.False(t, rbac.Can(models.RoleManager, CapProductUpdate))
	assert.True(t, rbac.Can(models.RoleAdmin, CapProductUpdate))
	assert.True(t, rbac.Can(models.RoleManager, CapInboundUpdate))
}

func TestRBACService_RejectsUnknownOverrides(t *testing.T) {
	_, err := NewRBACService(map[string][]string{"product:fly": {"admin"}})
	assert.Error(t, err)

	_, err = NewRBACService(map[string][]string{CapProductUpdate: {"superuser"}})
	assert.Error(t, err)
}
