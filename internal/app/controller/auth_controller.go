package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// userResponse is the public view of a user with its effective modules
func userResponse(user *model.User) gin.H {
	resp := gin.H{
		"id":       user.ID,
		"name":     user.Name,
		"username": user.Username,
		"active":   user.Active,
		"role_id":  user.RoleID,
	}
	if user.Role != nil {
		resp["role"] = user.Role.Name
		if user.Role.IsAdmin() {
			resp["permissions"] = model.AvailableModules
		} else {
			resp["permissions"] = user.Role.Permissions
		}
	}
	return resp
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "login")
		return
	}

	log.Info("Login successful", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Sesión iniciada",
		"user":    userResponse(user),
		"tokens":  tokens,
	})
}

// Refresh issues a new token pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := ctrl.authService.Refresh(req.RefreshToken)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
	})
}

// Logout revokes the current access token and the optional refresh token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LogoutRequest
	// body is optional
	_ = c.ShouldBindJSON(&req)

	if err := ctrl.authService.Logout(c.Request.Context(), middleware.GetAccessToken(c), req.RefreshToken); err != nil {
		apperrors.RespondWithServiceError(c, err, "logout")
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Info("User logged out", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Sesión cerrada",
	})
}

// GetMe returns current user information
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": userResponse(user),
	})
}

// ChangePassword updates the current user's password
// PUT /api/v1/auth/password
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		apperrors.RespondWithServiceError(c, err, "change password")
		return
	}

	log.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Contraseña actualizada",
	})
}
