package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

type SaleController struct {
	saleService service.SaleService
}

func NewSaleController(saleService service.SaleService) *SaleController {
	return &SaleController{saleService: saleService}
}

type StartSaleRequest struct {
	CustomerID *uint `json:"customer_id"`
}

type AddSaleItemRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type FinalizeSaleRequest struct {
	Payments []service.PaymentInput `json:"payments" binding:"required"`
}

// StartSale opens a cart for the cashier, cancelling any previous one
// POST /api/v1/sales
func (ctrl *SaleController) StartSale(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req StartSaleRequest
	// body is optional
	_ = c.ShouldBindJSON(&req)

	sale, err := ctrl.saleService.StartSale(userID, req.CustomerID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "start sale")
		return
	}

	log.Info("Sale started", map[string]interface{}{
		"sale_id": sale.ID,
		"user_id": userID,
	})

	c.JSON(http.StatusCreated, gin.H{"sale": sale})
}

// GetActiveSale returns the cashier's open cart or null
// GET /api/v1/sales/active
func (ctrl *SaleController) GetActiveSale(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	sale, err := ctrl.saleService.GetActiveSale(userID)
	if err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			c.JSON(http.StatusOK, gin.H{"sale": nil})
			return
		}
		apperrors.RespondWithServiceError(c, err, "active sale")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sale": sale})
}

// GET /api/v1/sales/:id
func (ctrl *SaleController) GetSale(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := ctrl.saleService.GetSale(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "get sale")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sale": sale})
}

// ListSales filters by ?status, ?user_id, ?from and ?to (YYYY-MM-DD)
// GET /api/v1/sales
func (ctrl *SaleController) ListSales(c *gin.Context) {
	userID, ok := optionalUintQuery(c, "user_id")
	if !ok {
		return
	}
	from, ok := dateQuery(c, "from", false)
	if !ok {
		return
	}
	to, ok := dateQuery(c, "to", true)
	if !ok {
		return
	}

	filter := repository.SaleFilter{
		Status: model.SaleStatus(c.Query("status")),
		From:   from,
		To:     to,
	}
	if userID != nil {
		filter.UserID = *userID
	}

	sales, err := ctrl.saleService.ListSales(filter)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "list sales")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales": sales,
		"count": len(sales),
	})
}

// AddItem adds units of a variant, merging with an existing line
// POST /api/v1/sales/:id/items
func (ctrl *SaleController) AddItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddSaleItemRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := ctrl.saleService.AddItem(id, req.VariantID, req.Quantity)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "add sale item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sale": sale})
}

// RemoveItem drops a line; removing the last one cancels the sale
// DELETE /api/v1/sales/:id/items/:lineId
func (ctrl *SaleController) RemoveItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := parseIDParam(c, "lineId")
	if !ok {
		return
	}

	sale, err := ctrl.saleService.RemoveItem(id, lineID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "remove sale item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sale":      sale,
		"cancelled": sale == nil,
	})
}

// FinalizeSale takes the payments and debits stock
// POST /api/v1/sales/:id/finalize
func (ctrl *SaleController) FinalizeSale(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req FinalizeSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := ctrl.saleService.FinalizeSale(id, req.Payments)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "finalize sale")
		return
	}

	log.Info("Sale finalized", map[string]interface{}{
		"sale_id": sale.ID,
		"total":   sale.Total.String(),
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Venta completada",
		"sale":    sale,
	})
}

// POST /api/v1/sales/:id/cancel
func (ctrl *SaleController) CancelSale(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.saleService.CancelSale(id); err != nil {
		apperrors.RespondWithServiceError(c, err, "cancel sale")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Venta cancelada"})
}
