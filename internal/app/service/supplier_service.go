package service

import (
	"errors"
	"strings"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"github.com/sibors/sibors-backend/pkg/util"
	"gorm.io/gorm"
)

type SupplierInput struct {
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Website     string `json:"website"`
}

type SupplierService interface {
	CreateSupplier(input SupplierInput) (*model.Supplier, error)
	UpdateSupplier(id uint, input SupplierInput) (*model.Supplier, error)
	DeleteSupplier(id uint) error
	GetSupplier(id uint) (*model.Supplier, error)
	ListSuppliers(search string) ([]model.Supplier, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
}

func NewSupplierService(supplierRepo repository.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: supplierRepo}
}

// build validates input and fills supplier. excludeID skips the row being edited.
func (s *supplierService) build(supplier *model.Supplier, input SupplierInput, excludeID uint) error {
	name := util.SanitizeString(input.CompanyName)
	if !util.MinLength(name, 3) {
		return ErrNameTooShort
	}
	if _, err := s.supplierRepo.FindByName(name, excludeID); err == nil {
		return ErrDuplicateSupplierName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var email *string
	if trimmed := strings.ToLower(strings.TrimSpace(input.Email)); trimmed != "" {
		if !util.ValidEmail(trimmed) {
			return ErrInvalidEmail
		}
		if _, err := s.supplierRepo.FindByEmail(trimmed, excludeID); err == nil {
			return ErrDuplicateSupplierEmail
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		email = &trimmed
	}

	supplier.CompanyName = name
	supplier.ContactName = util.SanitizeString(input.ContactName)
	supplier.Email = email
	supplier.Phone = util.SanitizePhone(input.Phone)
	supplier.Address = util.SanitizeString(input.Address)
	supplier.Website = strings.TrimSpace(input.Website)
	return nil
}

func (s *supplierService) CreateSupplier(input SupplierInput) (*model.Supplier, error) {
	supplier := &model.Supplier{}
	if err := s.build(supplier, input, 0); err != nil {
		logger.Warn("Supplier rejected", map[string]interface{}{
			"company_name": input.CompanyName,
			"error":        err.Error(),
		})
		return nil, err
	}
	if err := s.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	logger.Info("Supplier created", map[string]interface{}{
		"supplier_id": supplier.ID,
	})
	return supplier, nil
}

func (s *supplierService) UpdateSupplier(id uint, input SupplierInput) (*model.Supplier, error) {
	supplier, err := s.GetSupplier(id)
	if err != nil {
		return nil, err
	}
	if err := s.build(supplier, input, id); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Update(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) DeleteSupplier(id uint) error {
	if _, err := s.GetSupplier(id); err != nil {
		return err
	}
	count, err := s.supplierRepo.CountTemplates(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Cannot delete supplier with templates", map[string]interface{}{
			"supplier_id": id,
			"templates":   count,
		})
		return ErrSupplierHasTemplates
	}
	return s.supplierRepo.Delete(id)
}

func (s *supplierService) GetSupplier(id uint) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) ListSuppliers(search string) ([]model.Supplier, error) {
	return s.supplierRepo.FindAll(search)
}
