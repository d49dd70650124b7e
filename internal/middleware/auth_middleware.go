package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey          = "user_id"
	UsernameKey        = "username"
	UserRoleKey        = "user_role"
	UserPermissionsKey = "user_permissions"
	AccessTokenKey     = "access_token"
)

type AuthMiddleware struct {
	jwtSecret string
	revoker   service.TokenRevoker
}

// NewAuthMiddleware builds the middleware. revoker may be nil when no
// blacklist is configured.
func NewAuthMiddleware(jwtSecret string, revoker service.TokenRevoker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		revoker:   revoker,
	}
}

// bearerToken reads the Authorization header, falling back to the token query
// parameter used by WebSocket clients.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query("token")
		return token, token != ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Authenticate validates the access token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Missing or malformed authorization", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if errors.Is(err, util.ErrExpiredToken) {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "La sesión expiró, inicie sesión de nuevo")
			} else {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "El token de acceso no es válido")
			}
			c.Abort()
			return
		}
		if claims.TokenType != util.TokenTypeAccess {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "El token de acceso no es válido")
			c.Abort()
			return
		}

		if m.revoker != nil {
			revoked, err := m.revoker.IsRevoked(c.Request.Context(), token)
			if err != nil {
				log.Error("Failed to check token revocation", err, map[string]interface{}{
					"user_id": claims.UserID,
				})
				apperrors.InternalError(c, "")
				c.Abort()
				return
			}
			if revoked {
				log.Warn("Revoked token used", map[string]interface{}{
					"user_id": claims.UserID,
					"path":    c.Request.URL.Path,
				})
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "La sesión fue cerrada")
				c.Abort()
				return
			}
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Set(UserRoleKey, claims.Role)
		c.Set(UserPermissionsKey, claims.Permissions)
		c.Set(AccessTokenKey, token)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id":  claims.UserID,
			"username": claims.Username,
			"role":     claims.Role,
		})

		c.Next()
	}
}

// RequirePermission lets the request through when the user's role grants
// module. Admin passes every check.
func (m *AuthMiddleware) RequirePermission(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, _ := GetUserRole(c)
		if role == model.AdminRoleName {
			c.Next()
			return
		}
		for _, p := range GetUserPermissions(c) {
			if p == module {
				c.Next()
				return
			}
		}

		userID, _ := GetUserID(c)
		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":         userID,
			"user_role":       role,
			"required_module": module,
			"path":            c.Request.URL.Path,
		})
		apperrors.Forbidden(c, "")
		c.Abort()
	}
}

// RequireAdmin restricts the route to the Admin role
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := GetUserRole(c)
		if role != model.AdminRoleName {
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, "Sólo un administrador puede realizar esta acción")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUserRole extracts the role name from context
func GetUserRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	return role.(string), true
}

func GetUserPermissions(c *gin.Context) []string {
	perms, exists := c.Get(UserPermissionsKey)
	if !exists {
		return nil
	}
	list, _ := perms.([]string)
	return list
}

// GetAccessToken returns the raw token of the current request
func GetAccessToken(c *gin.Context) string {
	return c.GetString(AccessTokenKey)
}
