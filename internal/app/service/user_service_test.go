package service

import (
	"testing"
	"time"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fastHashing(t *testing.T) {
	previous := util.BcryptCost
	util.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { util.BcryptCost = previous })
}

func setupUserService(t *testing.T) (*testEnv, *userService, *model.Role, *model.Role) {
	fastHashing(t)
	env := setupTestEnv(t)
	admin := &model.Role{Name: model.AdminRoleName, Permissions: model.AvailableModules}
	require.NoError(t, env.roleRepo.Create(admin))
	cashier := &model.Role{Name: "Cajero", Permissions: []string{"ventas"}}
	require.NoError(t, env.roleRepo.Create(cashier))

	svc := NewUserService(env.userRepo, env.roleRepo).(*userService)
	return env, svc, admin, cashier
}

func TestUserService_CreateUser(t *testing.T) {
	_, users, _, cashier := setupUserService(t)

	created, err := users.CreateUser(CreateUserInput{
		Name:     "  Pedro   Gómez ",
		Username: "pgomez",
		Password: "secreto123",
		RoleID:   cashier.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pedro Gómez", created.Name)
	assert.True(t, created.Active)
	assert.NotEqual(t, "secreto123", created.PasswordHash)
	assert.True(t, util.VerifyPassword(created.PasswordHash, "secreto123"))
	require.NotNil(t, created.Role)
	assert.Equal(t, "Cajero", created.Role.Name)

	tests := []struct {
		name    string
		input   CreateUserInput
		wantErr error
	}{
		{name: "Missing name", input: CreateUserInput{Username: "otro", Password: "x", RoleID: cashier.ID}, wantErr: ErrNameRequired},
		{name: "Duplicate username", input: CreateUserInput{Name: "Otro", Username: "pgomez", Password: "x", RoleID: cashier.ID}, wantErr: ErrDuplicateUsername},
		{name: "Unknown role", input: CreateUserInput{Name: "Otro", Username: "otro", Password: "x", RoleID: 999}, wantErr: ErrRoleNotFound},
		{name: "Empty password", input: CreateUserInput{Name: "Otro", Username: "otro", Password: " ", RoleID: cashier.ID}, wantErr: ErrPasswordRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := users.CreateUser(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserService_UpdateUser_Deactivation(t *testing.T) {
	_, users, admin, cashier := setupUserService(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	users.now = func() time.Time { return fixed }

	created, err := users.CreateUser(CreateUserInput{Name: "Lucía", Username: "lucia", Password: "clave", RoleID: cashier.ID})
	require.NoError(t, err)

	inactive := false
	updated, err := users.UpdateUser(created.ID, UpdateUserInput{Active: &inactive, RoleID: &admin.ID})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	require.NotNil(t, updated.DeactivatedAt)
	assert.True(t, fixed.Equal(*updated.DeactivatedAt))
	assert.Equal(t, admin.ID, updated.RoleID)

	active := true
	updated, err = users.UpdateUser(created.ID, UpdateUserInput{Active: &active, NewPassword: "nueva"})
	require.NoError(t, err)
	assert.True(t, updated.Active)
	assert.Nil(t, updated.DeactivatedAt)
	assert.True(t, util.VerifyPassword(updated.PasswordHash, "nueva"))

	_, err = users.UpdateUser(999, UpdateUserInput{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_DeleteUser(t *testing.T) {
	_, users, admin, cashier := setupUserService(t)
	deactivatedOn := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	users.now = func() time.Time { return deactivatedOn }

	inactive := false
	create := func(username string, roleID uint) *model.User {
		u, err := users.CreateUser(CreateUserInput{Name: username, Username: username, Password: "clave", RoleID: roleID})
		require.NoError(t, err)
		return u
	}
	stillActive := create("activo", cashier.ID)
	boss := create("jefe", admin.ID)
	leaver := create("saliente", cashier.ID)
	for _, u := range []*model.User{boss, leaver} {
		_, err := users.UpdateUser(u.ID, UpdateUserInput{Active: &inactive})
		require.NoError(t, err)
	}

	assert.ErrorIs(t, users.DeleteUser(stillActive.ID), ErrUserStillActive)
	assert.ErrorIs(t, users.DeleteUser(boss.ID), ErrCannotDeleteAdmin)

	users.now = func() time.Time { return deactivatedOn.Add(10 * 24 * time.Hour) }
	err := users.DeleteUser(leaver.ID)
	assert.ErrorIs(t, err, ErrDeactivationTooRecent)
	assert.Contains(t, err.Error(), "Faltan 20 día(s)")

	users.now = func() time.Time { return deactivatedOn.Add(DeletionGracePeriod) }
	require.NoError(t, users.DeleteUser(leaver.ID))
	_, err = users.GetUser(leaver.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.NoError(t, users.DeleteUser(leaver.ID))
}
