package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

type RoleController struct {
	roleService service.RoleService
}

func NewRoleController(roleService service.RoleService) *RoleController {
	return &RoleController{roleService: roleService}
}

type RoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions"`
}

// GET /api/v1/roles
func (ctrl *RoleController) ListRoles(c *gin.Context) {
	roles, err := ctrl.roleService.ListRoles()
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "list roles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roles": roles,
		"count": len(roles),
	})
}

// ListModules returns the modules a role can be granted
// GET /api/v1/roles/modules
func (ctrl *RoleController) ListModules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modules": model.AvailableModules})
}

// GET /api/v1/roles/:id
func (ctrl *RoleController) GetRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role, err := ctrl.roleService.GetRole(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "get role")
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": role})
}

// POST /api/v1/roles
func (ctrl *RoleController) CreateRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RoleRequest
	if !bindJSON(c, &req) {
		return
	}

	role, err := ctrl.roleService.CreateRole(req.Name, req.Permissions)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "create role")
		return
	}

	log.Info("Role created", map[string]interface{}{
		"role_id": role.ID,
		"name":    role.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Rol creado",
		"role":    role,
	})
}

// PUT /api/v1/roles/:id
func (ctrl *RoleController) UpdateRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RoleRequest
	if !bindJSON(c, &req) {
		return
	}

	role, err := ctrl.roleService.UpdateRole(id, req.Name, req.Permissions)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "update role")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rol actualizado",
		"role":    role,
	})
}

// DeleteRole removes a role; ?reassign_to moves its users first
// DELETE /api/v1/roles/:id
func (ctrl *RoleController) DeleteRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reassignTo, ok := optionalUintQuery(c, "reassign_to")
	if !ok {
		return
	}

	if err := ctrl.roleService.DeleteRole(id, reassignTo); err != nil {
		apperrors.RespondWithServiceError(c, err, "delete role")
		return
	}

	log.Info("Role deleted", map[string]interface{}{
		"role_id":     id,
		"reassign_to": reassignTo,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Rol eliminado"})
}
