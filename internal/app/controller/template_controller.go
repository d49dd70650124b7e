package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

type TemplateController struct {
	templateService service.TemplateService
}

func NewTemplateController(templateService service.TemplateService) *TemplateController {
	return &TemplateController{templateService: templateService}
}

// ListTemplates filters by ?search and ?category_id (descendants included)
// GET /api/v1/templates
func (ctrl *TemplateController) ListTemplates(c *gin.Context) {
	categoryID, ok := optionalUintQuery(c, "category_id")
	if !ok {
		return
	}

	templates, err := ctrl.templateService.ListTemplates(service.TemplateFilter{
		Search:     c.Query("search"),
		CategoryID: categoryID,
	})
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "list templates")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"count":     len(templates),
	})
}

// GET /api/v1/templates/:id
func (ctrl *TemplateController) GetTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	template, err := ctrl.templateService.GetTemplate(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "get template")
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": template})
}

// GetTemplateStock returns the summed stock, or the derived stock of a kit
// GET /api/v1/templates/:id/stock
func (ctrl *TemplateController) GetTemplateStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stock, err := ctrl.templateService.TemplateStock(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "template stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"template_id": id,
		"stock":       stock,
	})
}

// CreateTemplate creates a template with its variants or kit components
// POST /api/v1/templates
func (ctrl *TemplateController) CreateTemplate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.CreateTemplateInput
	if !bindJSON(c, &req) {
		return
	}

	log.Debug("Creating template", map[string]interface{}{
		"name":     req.Name,
		"kind":     req.Kind,
		"variants": len(req.Variants),
	})

	result, err := ctrl.templateService.CreateTemplate(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "create template")
		return
	}

	log.Info("Template created", map[string]interface{}{
		"template_id": result.Template.ID,
		"warnings":    len(result.Warnings),
	})

	c.JSON(http.StatusCreated, result)
}

// UpdateTemplate reconciles variants, components and images
// PUT /api/v1/templates/:id
func (ctrl *TemplateController) UpdateTemplate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateTemplateInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctrl.templateService.UpdateTemplate(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "update template")
		return
	}

	log.Info("Template updated", map[string]interface{}{
		"template_id": id,
		"warnings":    len(result.Warnings),
	})

	c.JSON(http.StatusOK, result)
}

// DeleteTemplate removes a template without stock
// DELETE /api/v1/templates/:id
func (ctrl *TemplateController) DeleteTemplate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.templateService.DeleteTemplate(c.Request.Context(), id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "delete template")
		return
	}

	if len(result.ImageCleanupErrors) > 0 {
		log.Warn("Template deleted with image cleanup errors", map[string]interface{}{
			"template_id": id,
			"errors":      result.ImageCleanupErrors,
		})
	}

	c.JSON(http.StatusOK, result)
}

// ListVariants searches variants by SKU, barcode or template name
// GET /api/v1/variants
func (ctrl *TemplateController) ListVariants(c *gin.Context) {
	variants, err := ctrl.templateService.ListVariants(c.Query("search"))
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "list variants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variants": variants,
		"count":    len(variants),
	})
}

// GET /api/v1/variants/:id
func (ctrl *TemplateController) GetVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variant, err := ctrl.templateService.GetVariant(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "get variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"variant": variant})
}
