package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

type CompanyController struct {
	companyService service.CompanyService
}

func NewCompanyController(companyService service.CompanyService) *CompanyController {
	return &CompanyController{companyService: companyService}
}

// GetCompany returns the company profile, empty when never saved
// GET /api/v1/company
func (ctrl *CompanyController) GetCompany(c *gin.Context) {
	company, err := ctrl.companyService.GetCompany()
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "get company")
		return
	}

	c.JSON(http.StatusOK, gin.H{"company": company})
}

// SaveCompany updates the profile; empty fields keep their stored value
// PUT /api/v1/company
func (ctrl *CompanyController) SaveCompany(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.CompanyInput
	if !bindJSON(c, &req) {
		return
	}

	company, err := ctrl.companyService.SaveCompany(req)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "update company")
		return
	}

	log.Info("Company profile saved", map[string]interface{}{
		"company_id": company.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Datos de la empresa guardados",
		"company": company,
	})
}
