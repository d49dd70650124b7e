package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

// defaultSummaryDays is the window of the daily chart
const defaultSummaryDays = 7

type AccountingController struct {
	accountingService service.AccountingService
}

func NewAccountingController(accountingService service.AccountingService) *AccountingController {
	return &AccountingController{accountingService: accountingService}
}

// accountingFilter reads ?type, ?from and ?to
func accountingFilter(c *gin.Context) (repository.AccountingFilter, bool) {
	from, ok := dateQuery(c, "from", false)
	if !ok {
		return repository.AccountingFilter{}, false
	}
	to, ok := dateQuery(c, "to", true)
	if !ok {
		return repository.AccountingFilter{}, false
	}
	return repository.AccountingFilter{
		Type: model.MovementType(c.Query("type")),
		From: from,
		To:   to,
	}, true
}

// GET /api/v1/accounting
func (ctrl *AccountingController) ListMovements(c *gin.Context) {
	filter, ok := accountingFilter(c)
	if !ok {
		return
	}

	movements, err := ctrl.accountingService.ListMovements(filter)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "list accounting")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movements": movements,
		"count":     len(movements),
	})
}

// AddMovement records a manual income or expense
// POST /api/v1/accounting
func (ctrl *AccountingController) AddMovement(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.AccountingInput
	if !bindJSON(c, &req) {
		return
	}

	movement, err := ctrl.accountingService.AddMovement(req)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "create accounting movement")
		return
	}

	log.Info("Accounting movement added", map[string]interface{}{
		"movement_id": movement.ID,
		"type":        movement.Type,
		"amount":      movement.Amount.String(),
	})

	c.JSON(http.StatusCreated, gin.H{"movement": movement})
}

// GET /api/v1/accounting/summary
func (ctrl *AccountingController) Summary(c *gin.Context) {
	filter, ok := accountingFilter(c)
	if !ok {
		return
	}

	summary, err := ctrl.accountingService.Summary(filter)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "accounting summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// DailySummary returns one entry per day for the last ?days days
// GET /api/v1/accounting/daily
func (ctrl *AccountingController) DailySummary(c *gin.Context) {
	days := defaultSummaryDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 366 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "days debe estar entre 1 y 366")
			return
		}
		days = n
	}

	daily, err := ctrl.accountingService.DailySummary(days)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "daily accounting")
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": daily})
}
