package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

type CustomerController struct {
	customerService service.CustomerService
}

func NewCustomerController(customerService service.CustomerService) *CustomerController {
	return &CustomerController{customerService: customerService}
}

// GET /api/v1/customers
func (ctrl *CustomerController) ListCustomers(c *gin.Context) {
	customers, err := ctrl.customerService.ListCustomers(c.Query("search"))
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "list customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"count":     len(customers),
	})
}

// GET /api/v1/customers/:id
func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := ctrl.customerService.GetCustomer(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "get customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// GetCustomerSales lists the customer's purchase history
// GET /api/v1/customers/:id/sales
func (ctrl *CustomerController) GetCustomerSales(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sales, err := ctrl.customerService.CustomerSales(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "customer sales")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales": sales,
		"count": len(sales),
	})
}

// POST /api/v1/customers
func (ctrl *CustomerController) CreateCustomer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.CustomerInput
	if !bindJSON(c, &req) {
		return
	}

	customer, err := ctrl.customerService.CreateCustomer(req)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "create customer")
		return
	}

	log.Info("Customer created", map[string]interface{}{
		"customer_id": customer.ID,
	})

	c.JSON(http.StatusCreated, gin.H{"customer": customer})
}

// PUT /api/v1/customers/:id
func (ctrl *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.CustomerInput
	if !bindJSON(c, &req) {
		return
	}

	customer, err := ctrl.customerService.UpdateCustomer(id, req)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "update customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// DELETE /api/v1/customers/:id
func (ctrl *CustomerController) DeleteCustomer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.customerService.DeleteCustomer(id); err != nil {
		apperrors.RespondWithServiceError(c, err, "delete customer")
		return
	}

	log.Info("Customer deleted", map[string]interface{}{
		"customer_id": id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado"})
}
