package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

type PurchaseController struct {
	purchaseService service.PurchaseService
}

func NewPurchaseController(purchaseService service.PurchaseService) *PurchaseController {
	return &PurchaseController{purchaseService: purchaseService}
}

type CreatePurchaseRequest struct {
	SupplierID uint                        `json:"supplier_id" binding:"required"`
	Lines      []service.PurchaseLineInput `json:"lines" binding:"required"`
}

// ListOrders filters by ?status (pending, received, cancelled)
// GET /api/v1/purchases
func (ctrl *PurchaseController) ListOrders(c *gin.Context) {
	orders, err := ctrl.purchaseService.ListOrders(model.PurchaseOrderStatus(c.Query("status")))
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "list purchases")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GET /api/v1/purchases/:id
func (ctrl *PurchaseController) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.purchaseService.GetOrder(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "get purchase")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CreateOrder registers a pending order
// POST /api/v1/purchases
func (ctrl *PurchaseController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreatePurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := ctrl.purchaseService.CreateOrder(req.SupplierID, req.Lines)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "create purchase")
		return
	}

	log.Info("Purchase order created", map[string]interface{}{
		"order_id":    order.ID,
		"supplier_id": order.SupplierID,
		"total":       order.Total.String(),
	})

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// ReceiveOrder adds the ordered units to stock and books the expense
// POST /api/v1/purchases/:id/receive
func (ctrl *PurchaseController) ReceiveOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.purchaseService.ReceiveOrder(id, currentUserID(c))
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "receive purchase")
		return
	}

	log.Info("Purchase order received", map[string]interface{}{
		"order_id": order.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Orden recibida",
		"order":   order,
	})
}

// POST /api/v1/purchases/:id/cancel
func (ctrl *PurchaseController) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.purchaseService.CancelOrder(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "cancel purchase")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orden cancelada",
		"order":   order,
	})
}
