package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMemoryRevoker() *memoryRevoker {
	return &memoryRevoker{revoked: make(map[string]time.Duration)}
}

func (r *memoryRevoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = ttl
	return nil
}

func (r *memoryRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[token]
	return ok, nil
}

func setupAuthServiceTest(t *testing.T) (AuthService, *testEnv, *memoryRevoker) {
	fastHashing(t)
	env := setupTestEnv(t)
	revoker := newMemoryRevoker()
	authService := NewAuthService(env.userRepo, revoker, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	return authService, env, revoker
}

func createLoginUser(t *testing.T, env *testEnv, username, password string, role *model.Role) *model.User {
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	user := &model.User{Name: username, Username: username, PasswordHash: hash, Active: true, RoleID: role.ID}
	require.NoError(t, env.userRepo.Create(user))
	return user
}

func TestAuthService_Login(t *testing.T) {
	authService, env, _ := setupAuthServiceTest(t)

	admin := &model.Role{Name: model.AdminRoleName}
	require.NoError(t, env.roleRepo.Create(admin))
	cashier := &model.Role{Name: "Cajero", Permissions: []string{"ventas", "clientes"}}
	require.NoError(t, env.roleRepo.Create(cashier))

	createLoginUser(t, env, "admin", "admin123", admin)
	createLoginUser(t, env, "caja", "caja123", cashier)
	inactive := createLoginUser(t, env, "baja", "baja123", cashier)
	inactive.Active = false
	require.NoError(t, env.userRepo.Update(inactive))

	tests := []struct {
		name      string
		username  string
		password  string
		wantErr   error
		wantPerms []string
	}{
		{name: "Admin gets every module", username: "admin", password: "admin123", wantPerms: model.AvailableModules},
		{name: "Role permissions", username: " CAJA ", password: "caja123", wantPerms: []string{"ventas", "clientes"}},
		{name: "Wrong password", username: "caja", password: "otra", wantErr: ErrInvalidCredentials},
		{name: "Unknown user", username: "nadie", password: "x", wantErr: ErrInvalidCredentials},
		{name: "Inactive user", username: "baja", password: "baja123", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, tokens)

			claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, util.TokenTypeAccess, claims.TokenType)
			assert.Equal(t, tt.wantPerms, claims.Permissions)
		})
	}
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	authService, env, revoker := setupAuthServiceTest(t)
	role := &model.Role{Name: "Almacén", Permissions: []string{"productos"}}
	require.NoError(t, env.roleRepo.Create(role))
	createLoginUser(t, env, "bodega", "bodega123", role)

	_, tokens, err := authService.Login("bodega", "bodega123")
	require.NoError(t, err)

	_, err = authService.Refresh(tokens.AccessToken)
	assert.ErrorIs(t, err, util.ErrInvalidToken)

	refreshed, err := authService.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	claims, err := util.ValidateToken(refreshed.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, []string{"productos"}, claims.Permissions)

	require.NoError(t, authService.Logout(context.Background(), tokens.AccessToken, tokens.RefreshToken, ""))
	revoked, err := revoker.IsRevoked(context.Background(), tokens.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Greater(t, revoker.revoked[tokens.RefreshToken], 24*time.Hour)

	_, err = authService.Refresh(tokens.RefreshToken)
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestAuthService_ChangePassword(t *testing.T) {
	authService, env, _ := setupAuthServiceTest(t)
	role := &model.Role{Name: "Cajero"}
	require.NoError(t, env.roleRepo.Create(role))
	user := createLoginUser(t, env, "cambio", "vieja123", role)

	assert.ErrorIs(t, authService.ChangePassword(user.ID, "incorrecta", "nueva123"), ErrInvalidCredentials)
	assert.ErrorIs(t, authService.ChangePassword(user.ID, "vieja123", "  "), ErrPasswordRequired)
	require.NoError(t, authService.ChangePassword(user.ID, "vieja123", "nueva123"))

	_, _, err := authService.Login("cambio", "vieja123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = authService.Login("cambio", "nueva123")
	assert.NoError(t, err)

	_, err = authService.GetUserByID(999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
