package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/internal/app/service"
	"github.com/sibors/sibors-backend/internal/db"
	"github.com/sibors/sibors-backend/internal/middleware"
	"github.com/sibors/sibors-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthControllerTest(t *testing.T) (*gin.Engine, service.AuthService) {
	gin.SetMode(gin.TestMode)

	previous := util.BcryptCost
	util.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { util.BcryptCost = previous })

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	require.NoError(t, db.SeedDB(testDB))
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	authService := service.NewAuthService(
		userRepo,
		nil,
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)

	ctrl := NewAuthController(authService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret", nil)

	router := gin.New()
	router.POST("/login", ctrl.Login)
	router.POST("/refresh", ctrl.Refresh)
	router.GET("/me", authMiddleware.Authenticate(), ctrl.GetMe)
	router.PUT("/password", authMiddleware.Authenticate(), ctrl.ChangePassword)

	return router, authService
}

func postJSON(router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthController_Login_Success(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := postJSON(router, http.MethodPost, "/login", "", LoginRequest{
		Username: "admin",
		Password: "admin123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	user := response["user"].(map[string]interface{})
	assert.Equal(t, "admin", user["username"])
	assert.Equal(t, "Admin", user["role"])
	assert.NotContains(t, user, "password_hash")

	tokens := response["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])
}

func TestAuthController_Login_Failures(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	tests := []struct {
		name     string
		payload  interface{}
		wantCode int
		wantErr  string
	}{
		{"wrong password", LoginRequest{Username: "admin", Password: "nope"}, http.StatusUnauthorized, "AUTH_INVALID_CREDENTIALS"},
		{"unknown user", LoginRequest{Username: "ghost", Password: "admin123"}, http.StatusUnauthorized, "AUTH_INVALID_CREDENTIALS"},
		{"missing fields", map[string]string{"username": "admin"}, http.StatusBadRequest, "VALIDATION_INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, http.MethodPost, "/login", "", tt.payload)
			assert.Equal(t, tt.wantCode, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.wantErr, response["error"])
		})
	}
}

func TestAuthController_RefreshAndMe(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, tokens, err := authService.Login("admin", "admin123")
	require.NoError(t, err)

	w := postJSON(router, http.MethodPost, "/refresh", "", RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.Equal(t, http.StatusOK, w.Code)

	// an access token is not accepted as a refresh token
	w = postJSON(router, http.MethodPost, "/refresh", "", RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	user := response["user"].(map[string]interface{})
	assert.Equal(t, "Administrador", user["name"])
	assert.NotEmpty(t, user["permissions"])
}

func TestAuthController_ChangePassword(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, tokens, err := authService.Login("admin", "admin123")
	require.NoError(t, err)

	w := postJSON(router, http.MethodPut, "/password", tokens.AccessToken, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "nueva-clave",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(router, http.MethodPut, "/password", tokens.AccessToken, ChangePasswordRequest{
		CurrentPassword: "admin123",
		NewPassword:     "corta",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(router, http.MethodPut, "/password", tokens.AccessToken, ChangePasswordRequest{
		CurrentPassword: "admin123",
		NewPassword:     "nueva-clave",
	})
	require.Equal(t, http.StatusOK, w.Code)

	_, _, err = authService.Login("admin", "nueva-clave")
	assert.NoError(t, err)
}
