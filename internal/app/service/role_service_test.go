package service

import (
	"testing"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPermissions(t *testing.T) {
	got := cleanPermissions([]string{"Ventas", "dashboard", "inexistente", "ventas", " compras "})
	assert.Equal(t, []string{"dashboard", "ventas", "compras"}, got)
	assert.Empty(t, cleanPermissions(nil))
}

func TestRoleService_CreateAndUpdate(t *testing.T) {
	env := setupTestEnv(t)
	roles := NewRoleService(env.db, env.roleRepo)

	seller, err := roles.CreateRole("Vendedor", []string{"ventas", "clientes"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ventas", "clientes"}, seller.Permissions)

	_, err = roles.CreateRole("vendedor", nil)
	assert.ErrorIs(t, err, ErrDuplicateRoleName)
	_, err = roles.CreateRole("", nil)
	assert.ErrorIs(t, err, ErrNameRequired)

	updated, err := roles.UpdateRole(seller.ID, "Vendedor Senior", []string{"ventas", "reportes"})
	require.NoError(t, err)
	assert.Equal(t, "Vendedor Senior", updated.Name)

	reloaded, err := roles.GetRole(seller.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ventas", "reportes"}, reloaded.Permissions)

	admin, err := roles.CreateRole(model.AdminRoleName, model.AvailableModules)
	require.NoError(t, err)
	unchanged, err := roles.UpdateRole(admin.ID, "Superusuario", []string{"ventas"})
	require.NoError(t, err)
	assert.Equal(t, model.AdminRoleName, unchanged.Name)
	assert.Len(t, unchanged.Permissions, len(model.AvailableModules))
	assert.ErrorIs(t, roles.DeleteRole(admin.ID, nil), ErrCannotDeleteAdmin)
}

func TestRoleService_DeleteRole(t *testing.T) {
	env := setupTestEnv(t)
	roles := NewRoleService(env.db, env.roleRepo)
	user := env.createUser(t, "cajero-rol")

	cashier, err := roles.GetRole(user.RoleID)
	require.NoError(t, err)
	backup, err := roles.CreateRole("Respaldo", []string{"ventas"})
	require.NoError(t, err)

	assert.ErrorIs(t, roles.DeleteRole(cashier.ID, nil), ErrRoleInUse)
	assert.ErrorIs(t, roles.DeleteRole(cashier.ID, &cashier.ID), ErrRoleInUse)
	missing := uint(999)
	assert.ErrorIs(t, roles.DeleteRole(cashier.ID, &missing), ErrRoleNotFound)

	require.NoError(t, roles.DeleteRole(cashier.ID, &backup.ID))
	_, err = roles.GetRole(cashier.ID)
	assert.ErrorIs(t, err, ErrRoleNotFound)

	moved, err := env.userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, backup.ID, moved.RoleID)

	list, err := roles.ListRoles()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
