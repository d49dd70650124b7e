package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

type SupplierController struct {
	supplierService service.SupplierService
}

func NewSupplierController(supplierService service.SupplierService) *SupplierController {
	return &SupplierController{supplierService: supplierService}
}

// ListSuppliers filters by ?search on name, contact or email
// GET /api/v1/suppliers
func (ctrl *SupplierController) ListSuppliers(c *gin.Context) {
	suppliers, err := ctrl.supplierService.ListSuppliers(c.Query("search"))
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "list suppliers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suppliers": suppliers,
		"count":     len(suppliers),
	})
}

// GET /api/v1/suppliers/:id
func (ctrl *SupplierController) GetSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	supplier, err := ctrl.supplierService.GetSupplier(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "get supplier")
		return
	}

	c.JSON(http.StatusOK, gin.H{"supplier": supplier})
}

// POST /api/v1/suppliers
func (ctrl *SupplierController) CreateSupplier(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.SupplierInput
	if !bindJSON(c, &req) {
		return
	}

	supplier, err := ctrl.supplierService.CreateSupplier(req)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "create supplier")
		return
	}

	log.Info("Supplier created", map[string]interface{}{
		"supplier_id": supplier.ID,
	})

	c.JSON(http.StatusCreated, gin.H{"supplier": supplier})
}

// PUT /api/v1/suppliers/:id
func (ctrl *SupplierController) UpdateSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.SupplierInput
	if !bindJSON(c, &req) {
		return
	}

	supplier, err := ctrl.supplierService.UpdateSupplier(id, req)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "update supplier")
		return
	}

	c.JSON(http.StatusOK, gin.H{"supplier": supplier})
}

// DELETE /api/v1/suppliers/:id
func (ctrl *SupplierController) DeleteSupplier(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.supplierService.DeleteSupplier(id); err != nil {
		apperrors.RespondWithServiceError(c, err, "delete supplier")
		return
	}

	log.Info("Supplier deleted", map[string]interface{}{
		"supplier_id": id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Proveedor eliminado"})
}
