package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

type AttributeController struct {
	attributeService service.AttributeService
}

func NewAttributeController(attributeService service.AttributeService) *AttributeController {
	return &AttributeController{attributeService: attributeService}
}

type AttributeRequest struct {
	Name string `json:"name" binding:"required"`
}

type AttributeValueRequest struct {
	Value     string  `json:"value" binding:"required"`
	ColorCode *string `json:"color_code"`
}

// ListAttributes returns attributes with their values
// GET /api/v1/attributes
func (ctrl *AttributeController) ListAttributes(c *gin.Context) {
	attributes, err := ctrl.attributeService.ListAttributes()
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "list attributes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attributes": attributes,
		"count":      len(attributes),
	})
}

// POST /api/v1/attributes
func (ctrl *AttributeController) CreateAttribute(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AttributeRequest
	if !bindJSON(c, &req) {
		return
	}

	attribute, err := ctrl.attributeService.CreateAttribute(req.Name)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "create attribute")
		return
	}

	log.Info("Attribute created", map[string]interface{}{
		"attribute_id": attribute.ID,
		"name":         attribute.Name,
	})

	c.JSON(http.StatusCreated, gin.H{"attribute": attribute})
}

// PUT /api/v1/attributes/:id
func (ctrl *AttributeController) RenameAttribute(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AttributeRequest
	if !bindJSON(c, &req) {
		return
	}

	attribute, err := ctrl.attributeService.RenameAttribute(id, req.Name)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "update attribute")
		return
	}

	c.JSON(http.StatusOK, gin.H{"attribute": attribute})
}

// DELETE /api/v1/attributes/:id
func (ctrl *AttributeController) DeleteAttribute(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.attributeService.DeleteAttribute(id); err != nil {
		apperrors.RespondWithServiceError(c, err, "delete attribute")
		return
	}

	log.Info("Attribute deleted", map[string]interface{}{
		"attribute_id": id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Atributo eliminado"})
}

// POST /api/v1/attributes/:id/values
func (ctrl *AttributeController) AddValue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AttributeValueRequest
	if !bindJSON(c, &req) {
		return
	}

	value, err := ctrl.attributeService.AddValue(id, req.Value, req.ColorCode)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "create attribute value")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"value": value})
}

// PUT /api/v1/attribute-values/:id
func (ctrl *AttributeController) UpdateValue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AttributeValueRequest
	if !bindJSON(c, &req) {
		return
	}

	value, err := ctrl.attributeService.UpdateValue(id, req.Value, req.ColorCode)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "update attribute value")
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": value})
}

// DELETE /api/v1/attribute-values/:id
func (ctrl *AttributeController) DeleteValue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.attributeService.DeleteValue(id); err != nil {
		apperrors.RespondWithServiceError(c, err, "delete attribute value")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Valor eliminado"})
}
