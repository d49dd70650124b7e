package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateTokenPair(t *testing.T) {
	tests := []struct {
		name          string
		userID        uint
		username      string
		role          string
		permissions   []string
		accessExpiry  time.Duration
		refreshExpiry time.Duration
	}{
		{
			name:          "Cashier token",
			userID:        1,
			username:      "caja1",
			role:          "Cajero",
			permissions:   []string{"ventas"},
			accessExpiry:  15 * time.Minute,
			refreshExpiry: 7 * 24 * time.Hour,
		},
		{
			name:          "Admin token",
			userID:        2,
			username:      "admin",
			role:          "Admin",
			permissions:   []string{"productos", "ventas", "usuarios"},
			accessExpiry:  15 * time.Minute,
			refreshExpiry: 7 * 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := GenerateTokenPair(
				tt.userID,
				tt.username,
				tt.role,
				tt.permissions,
				testSecret,
				tt.accessExpiry,
				tt.refreshExpiry,
			)

			require.NoError(t, err)
			require.NotNil(t, tokens)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
			assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
		})
	}
}

func TestValidateToken(t *testing.T) {
	userID := uint(123)
	username := "maria"
	role := "Vendedor"

	tokens, err := GenerateTokenPair(userID, username, role, []string{"ventas"}, testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "Valid access token", token: tokens.AccessToken, secret: testSecret},
		{name: "Valid refresh token", token: tokens.RefreshToken, secret: testSecret},
		{name: "Invalid secret", token: tokens.AccessToken, secret: "wrong-secret", wantErr: ErrInvalidToken},
		{name: "Invalid token format", token: "invalid.token.format", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Empty token", token: "", secret: testSecret, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, claims)
			assert.Equal(t, userID, claims.UserID)
			assert.Equal(t, username, claims.Username)
			assert.Equal(t, role, claims.Role)
		})
	}
}

func TestExpiredToken(t *testing.T) {
	tokens, err := GenerateTokenPair(1, "maria", "Vendedor", nil, testSecret, time.Nanosecond, time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	claims, err := ValidateToken(tokens.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestTokenClaims(t *testing.T) {
	tokens, err := GenerateTokenPair(42, "admin", "Admin", []string{"productos", "compras"}, testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	access, err := ValidateToken(tokens.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, access.TokenType)
	assert.True(t, access.HasPermission("compras"))
	assert.False(t, access.HasPermission("usuarios"))
	assert.True(t, access.IssuedAt.Before(access.ExpiresAt.Time))

	refresh, err := ValidateToken(tokens.RefreshToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	assert.Empty(t, refresh.Permissions)
}
