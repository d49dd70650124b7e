package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
)

type DashboardController struct {
	dashboardService service.DashboardService
}

func NewDashboardController(dashboardService service.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// GET /api/v1/dashboard/kpis
func (ctrl *DashboardController) GetKPIs(c *gin.Context) {
	kpis, err := ctrl.dashboardService.KPIs()
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "dashboard kpis")
		return
	}

	c.JSON(http.StatusOK, gin.H{"kpis": kpis})
}
