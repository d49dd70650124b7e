package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/model"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type setRevoker map[string]bool

func (r setRevoker) Revoke(_ context.Context, token string, _ time.Duration) error {
	r[token] = true
	return nil
}

func (r setRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	return r[token], nil
}

func setupMiddlewareTest(revoked setRevoker) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	middleware := NewAuthMiddleware(testJWTSecret, revoked)
	return router, middleware
}

func generateTestTokens(t *testing.T, userID uint, role string, permissions []string) *util.TokenPair {
	tokens, err := util.GenerateTokenPair(
		userID,
		"usuario",
		role,
		permissions,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)
	return tokens
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(setRevoker{})
	tokens := generateTestTokens(t, 7, "Cajero", []string{"ventas"})

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":     userID,
			"role":        role,
			"permissions": GetUserPermissions(c),
			"has_token":   GetAccessToken(c) != "",
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		UserID      uint     `json:"user_id"`
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
		HasToken    bool     `json:"has_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, uint(7), body.UserID)
	assert.Equal(t, "Cajero", body.Role)
	assert.Equal(t, []string{"ventas"}, body.Permissions)
	assert.True(t, body.HasToken)
}

func TestAuthMiddleware_Authenticate_QueryToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(setRevoker{})
	tokens := generateTestTokens(t, 1, "Cajero", nil)

	router.GET("/ws", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+tokens.AccessToken, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Authenticate_Rejections(t *testing.T) {
	revoked := setRevoker{}
	router, authMiddleware := setupMiddlewareTest(revoked)
	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	valid := generateTestTokens(t, 1, "Cajero", nil)
	closed := generateTestTokens(t, 2, "Almacén", nil)
	revoked[closed.AccessToken] = true

	expired, err := util.GenerateTokenPair(1, "usuario", "Cajero", nil, testJWTSecret, -time.Minute, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{name: "Missing header", header: "", wantCode: apperrors.AuthUnauthorized},
		{name: "Missing Bearer prefix", header: "invalid-token", wantCode: apperrors.AuthUnauthorized},
		{name: "Wrong prefix", header: "Basic token123", wantCode: apperrors.AuthUnauthorized},
		{name: "Empty token", header: "Bearer ", wantCode: apperrors.AuthTokenInvalid},
		{name: "Garbage token", header: "Bearer abc.def.ghi", wantCode: apperrors.AuthTokenInvalid},
		{name: "Refresh token", header: "Bearer " + valid.RefreshToken, wantCode: apperrors.AuthTokenInvalid},
		{name: "Expired token", header: "Bearer " + expired.AccessToken, wantCode: apperrors.AuthTokenExpired},
		{name: "Revoked token", header: "Bearer " + closed.AccessToken, wantCode: apperrors.AuthTokenRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Error)
		})
	}
}

func TestAuthMiddleware_RequirePermission(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	router.GET("/ventas", authMiddleware.Authenticate(), authMiddleware.RequirePermission("ventas"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/usuarios", authMiddleware.Authenticate(), authMiddleware.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cashier := generateTestTokens(t, 1, "Cajero", []string{"ventas"})
	stocker := generateTestTokens(t, 2, "Almacén", []string{"productos"})
	admin := generateTestTokens(t, 3, model.AdminRoleName, nil)

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
	}{
		{name: "Granted module", path: "/ventas", token: cashier.AccessToken, wantCode: http.StatusOK},
		{name: "Missing module", path: "/ventas", token: stocker.AccessToken, wantCode: http.StatusForbidden},
		{name: "Admin bypasses modules", path: "/ventas", token: admin.AccessToken, wantCode: http.StatusOK},
		{name: "Admin only route", path: "/usuarios", token: admin.AccessToken, wantCode: http.StatusOK},
		{name: "Admin only route denied", path: "/usuarios", token: cashier.AccessToken, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
