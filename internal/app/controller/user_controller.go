package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// ListUsers returns every user with its role
// GET /api/v1/users
func (ctrl *UserController) ListUsers(c *gin.Context) {
	users, err := ctrl.userService.ListUsers()
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GET /api/v1/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.GetUser(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateUser registers a new active user
// POST /api/v1/users
func (ctrl *UserController) CreateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.CreateUserInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctrl.userService.CreateUser(req)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "create user")
		return
	}

	log.Info("User created", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Usuario creado",
		"user":    user,
	})
}

// UpdateUser changes only the fields present in the body
// PUT /api/v1/users/:id
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateUserInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctrl.userService.UpdateUser(id, req)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "update user")
		return
	}

	log.Info("User updated", map[string]interface{}{
		"user_id": user.ID,
		"active":  user.Active,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Usuario actualizado",
		"user":    user,
	})
}

// DeleteUser removes a user that has been inactive long enough
// DELETE /api/v1/users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.DeleteUser(id); err != nil {
		apperrors.RespondWithServiceError(c, err, "delete user")
		return
	}

	log.Info("User deleted", map[string]interface{}{
		"user_id": id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Usuario eliminado"})
}
