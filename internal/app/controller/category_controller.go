package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// ListCategories returns the flat list. ?view=tree nests children and
// ?view=relevant keeps categories in use plus their ancestors.
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	switch c.Query("view") {
	case "tree":
		tree, err := ctrl.categoryService.CategoryTree()
		if err != nil {
			apperrors.RespondWithServiceError(c, err, "category tree")
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": tree})

	case "relevant":
		categories, err := ctrl.categoryService.RelevantCategories()
		if err != nil {
			apperrors.RespondWithServiceError(c, err, "relevant categories")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"categories": categories,
			"count":      len(categories),
		})

	default:
		categories, err := ctrl.categoryService.ListCategories()
		if err != nil {
			apperrors.RespondWithServiceError(c, err, "list categories")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"categories": categories,
			"count":      len(categories),
		})
	}
}

// GET /api/v1/categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.categoryService.GetCategory(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "get category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// GetDescendants returns the id and every descendant id
// GET /api/v1/categories/:id/descendants
func (ctrl *CategoryController) GetDescendants(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ids, err := ctrl.categoryService.DescendantIDs(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "category descendants")
		return
	}

	c.JSON(http.StatusOK, gin.H{"category_ids": ids})
}

// POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := ctrl.categoryService.CreateCategory(req.Name, req.ParentID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "create category")
		return
	}

	log.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"parent_id":   category.ParentID,
	})

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// PUT /api/v1/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := ctrl.categoryService.UpdateCategory(id, req.Name, req.ParentID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DELETE /api/v1/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteCategory(id); err != nil {
		apperrors.RespondWithServiceError(c, err, "delete category")
		return
	}

	log.Info("Category deleted", map[string]interface{}{
		"category_id": id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Categoría eliminada"})
}
