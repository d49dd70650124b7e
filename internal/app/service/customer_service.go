package service

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"github.com/sibors/sibors-backend/pkg/util"
	"gorm.io/gorm"
)

type CustomerInput struct {
	FullName     string               `json:"full_name"`
	BusinessName string               `json:"business_name"`
	RFC          string               `json:"rfc"`
	Email        string               `json:"email"`
	Phone        string               `json:"phone"`
	Address      string               `json:"address"`
	Status       model.CustomerStatus `json:"status"`
	CreditLimit  decimal.Decimal      `json:"credit_limit"`
}

type CustomerService interface {
	CreateCustomer(input CustomerInput) (*model.Customer, error)
	UpdateCustomer(id uint, input CustomerInput) (*model.Customer, error)
	DeleteCustomer(id uint) error
	GetCustomer(id uint) (*model.Customer, error)
	ListCustomers(search string) ([]model.Customer, error)
	CustomerSales(id uint) ([]model.Sale, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) build(customer *model.Customer, input CustomerInput, excludeID uint) error {
	name := util.SanitizeString(input.FullName)
	if !util.MinLength(name, 3) {
		return ErrNameTooShort
	}

	var email *string
	if trimmed := strings.ToLower(strings.TrimSpace(input.Email)); trimmed != "" {
		if !util.ValidEmail(trimmed) {
			return ErrInvalidEmail
		}
		if _, err := s.customerRepo.FindByEmail(trimmed, excludeID); err == nil {
			return ErrDuplicateCustomerEmail
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		email = &trimmed
	}

	var rfc *string
	if upper := util.SanitizeUpper(input.RFC); upper != "" {
		if !util.ValidRFC(upper) {
			return ErrInvalidRFC
		}
		if _, err := s.customerRepo.FindByRFC(upper, excludeID); err == nil {
			return ErrDuplicateCustomerRFC
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		rfc = &upper
	}

	status := input.Status
	if status == "" {
		status = model.CustomerActive
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if input.CreditLimit.IsNegative() {
		return ErrInvalidAmount
	}

	customer.FullName = name
	customer.BusinessName = util.SanitizeString(input.BusinessName)
	customer.RFC = rfc
	customer.Email = email
	customer.Phone = util.SanitizePhone(input.Phone)
	customer.Address = util.SanitizeString(input.Address)
	customer.Status = status
	customer.CreditLimit = input.CreditLimit
	return nil
}

func (s *customerService) CreateCustomer(input CustomerInput) (*model.Customer, error) {
	customer := &model.Customer{}
	if err := s.build(customer, input, 0); err != nil {
		logger.Warn("Customer rejected", map[string]interface{}{
			"full_name": input.FullName,
			"error":     err.Error(),
		})
		return nil, err
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	logger.Info("Customer created", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return customer, nil
}

func (s *customerService) UpdateCustomer(id uint, input CustomerInput) (*model.Customer, error) {
	customer, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}
	if err := s.build(customer, input, id); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) DeleteCustomer(id uint) error {
	if _, err := s.GetCustomer(id); err != nil {
		return err
	}
	count, err := s.customerRepo.CountSales(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Cannot delete customer with sales", map[string]interface{}{
			"customer_id": id,
			"sales":       count,
		})
		return ErrCustomerHasSales
	}
	return s.customerRepo.Delete(id)
}

func (s *customerService) GetCustomer(id uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *customerService) ListCustomers(search string) ([]model.Customer, error) {
	return s.customerRepo.FindAll(search)
}

func (s *customerService) CustomerSales(id uint) ([]model.Sale, error) {
	if _, err := s.GetCustomer(id); err != nil {
		return nil, err
	}
	return s.customerRepo.FindSales(id)
}
