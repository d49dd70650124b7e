package repository

import (
	"errors"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	WithTx(tx *gorm.DB) CompanyRepository
	Get() (*model.Company, error)
	Save(company *model.Company) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) WithTx(tx *gorm.DB) CompanyRepository {
	return &companyRepository{db: tx}
}

// Get returns the single profile row, or nil when none has been saved yet
func (r *companyRepository) Get() (*model.Company, error) {
	var company model.Company
	err := r.db.Order("id ASC").First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to load company profile", err)
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Save(company *model.Company) error {
	logger.Debug("Saving company profile", map[string]interface{}{
		"company_id": company.ID,
		"name":       company.Name,
	})

	if err := r.db.Save(company).Error; err != nil {
		logger.Error("Failed to save company profile", err)
		return err
	}
	return nil
}
