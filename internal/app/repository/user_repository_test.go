package repository

import (
	"testing"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository, *model.Role) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	role := &model.Role{Name: "Cajero", Permissions: []string{"ventas"}}
	require.NoError(t, NewRoleRepository(testDB).Create(role))

	return testDB, NewUserRepository(testDB), role
}

func TestUserRepository_Create(t *testing.T) {
	testDB, repo, role := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name: "Valid user",
			user: &model.User{
				Name:         "María López",
				Username:     "maria",
				PasswordHash: "hashedpassword",
				Active:       true,
				RoleID:       role.ID,
			},
			wantErr: false,
		},
		{
			name: "Duplicate username",
			user: &model.User{
				Name:         "Otra María",
				Username:     "maria",
				PasswordHash: "hashedpassword",
				Active:       true,
				RoleID:       role.ID,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.user.ID)
			}
		})
	}
}

func TestUserRepository_FindByUsername(t *testing.T) {
	testDB, repo, role := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{Name: "Juan", Username: "Juan.Perez", PasswordHash: "x", Active: true, RoleID: role.ID}
	require.NoError(t, repo.Create(user))

	found, err := repo.FindByUsername("juan.perez")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	require.NotNil(t, found.Role)
	assert.Equal(t, []string{"ventas"}, found.Role.Permissions)

	_, err = repo.FindByUsername("nadie")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	testDB, repo, role := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{Name: "Juan", Username: "juan", PasswordHash: "x", Active: true, RoleID: role.ID}
	require.NoError(t, repo.Create(user))

	user.Active = false
	require.NoError(t, repo.Update(user))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.False(t, found.Active)

	require.NoError(t, repo.Delete(user.ID))
	_, err = repo.FindByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoleRepository_ReassignUsers(t *testing.T) {
	testDB, users, cajero := setupUserTest(t)
	defer db.CleanupTestDB(testDB)
	roles := NewRoleRepository(testDB)

	vendedor := &model.Role{Name: "Vendedor", Permissions: []string{"ventas", "clientes"}}
	require.NoError(t, roles.Create(vendedor))

	require.NoError(t, users.Create(&model.User{Name: "A", Username: "a", PasswordHash: "x", Active: true, RoleID: cajero.ID}))
	require.NoError(t, users.Create(&model.User{Name: "B", Username: "b", PasswordHash: "x", Active: true, RoleID: cajero.ID}))

	count, err := roles.CountUsers(cajero.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, roles.ReassignUsers(cajero.ID, vendedor.ID))

	count, err = roles.CountUsers(cajero.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = roles.CountUsers(vendedor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
