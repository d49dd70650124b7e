package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

type StockController struct {
	stockService service.StockService
}

func NewStockController(stockService service.StockService) *StockController {
	return &StockController{stockService: stockService}
}

type AdjustStockRequest struct {
	Delta  int                  `json:"delta" binding:"required"`
	Kind   model.AdjustmentKind `json:"kind" binding:"required"`
	Reason string               `json:"reason"`
}

type adjustmentKindOption struct {
	Kind    model.AdjustmentKind `json:"kind"`
	Label   string               `json:"label"`
	Inbound bool                 `json:"inbound"`
}

// ListAdjustmentKinds returns the kinds a user may pick for a manual adjustment
// GET /api/v1/stock/adjustment-kinds
func (ctrl *StockController) ListAdjustmentKinds(c *gin.Context) {
	options := make([]adjustmentKindOption, 0, len(model.AdjustmentKinds))
	for _, k := range model.AdjustmentKinds {
		if !k.Manual() {
			continue
		}
		options = append(options, adjustmentKindOption{Kind: k, Label: k.Label(), Inbound: k.Inbound()})
	}
	c.JSON(http.StatusOK, gin.H{"kinds": options})
}

// AdjustStock applies a manual movement to a non-kit variant
// POST /api/v1/variants/:id/adjust
func (ctrl *StockController) AdjustStock(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.Kind.Manual() {
		apperrors.BadRequest(c, apperrors.StockInvalidAdjust, service.ErrInvalidAdjustmentKind.Error())
		return
	}

	movement, err := ctrl.stockService.AdjustStock(c.Request.Context(), service.AdjustStockInput{
		VariantID: id,
		Delta:     req.Delta,
		Kind:      req.Kind,
		Reason:    req.Reason,
		UserID:    currentUserID(c),
	})
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "adjust stock")
		return
	}

	log.Info("Stock adjusted", map[string]interface{}{
		"variant_id":  id,
		"delta":       movement.Delta,
		"kind":        movement.Kind,
		"stock_after": movement.StockAfter,
	})

	c.JSON(http.StatusCreated, gin.H{"movement": movement})
}

// GetMovements lists the variant's ledger oldest first
// GET /api/v1/variants/:id/movements
func (ctrl *StockController) GetMovements(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	movements, err := ctrl.stockService.Movements(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "variant movements")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movements": movements,
		"count":     len(movements),
	})
}

// CheckLedger replays one variant's movements
// GET /api/v1/variants/:id/ledger-check
func (ctrl *StockController) CheckLedger(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := ctrl.stockService.VerifyLedger(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "verify ledger")
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// CheckAllLedgers replays every non-kit variant and returns the mismatches
// GET /api/v1/stock/ledger-check
func (ctrl *StockController) CheckAllLedgers(c *gin.Context) {
	reports, err := ctrl.stockService.VerifyAllLedgers()
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "verify ledgers")
		return
	}

	inconsistent := make([]service.LedgerReport, 0)
	for _, r := range reports {
		if !r.Consistent {
			inconsistent = append(inconsistent, r)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"checked":      len(reports),
		"consistent":   len(inconsistent) == 0,
		"inconsistent": inconsistent,
	})
}
