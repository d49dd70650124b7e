package repository

import (
	"strings"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	WithTx(tx *gorm.DB) SupplierRepository
	Create(supplier *model.Supplier) error
	FindAll(search string) ([]model.Supplier, error)
	FindByID(id uint) (*model.Supplier, error)
	FindByName(name string, excludeID uint) (*model.Supplier, error)
	FindByEmail(email string, excludeID uint) (*model.Supplier, error)
	Update(supplier *model.Supplier) error
	Delete(id uint) error
	CountTemplates(id uint) (int64, error)
}

type supplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) WithTx(tx *gorm.DB) SupplierRepository {
	return &supplierRepository{db: tx}
}

func (r *supplierRepository) Create(supplier *model.Supplier) error {
	logger.Debug("Creating supplier in database", map[string]interface{}{
		"company_name": supplier.CompanyName,
	})

	if err := r.db.Create(supplier).Error; err != nil {
		logger.Error("Failed to create supplier in database", err, map[string]interface{}{
			"company_name": supplier.CompanyName,
		})
		return err
	}
	return nil
}

// FindAll filters by company name, contact or email when search is not empty
func (r *supplierRepository) FindAll(search string) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	query := r.db.Order("company_name ASC")
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(company_name) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}
	if err := query.Find(&suppliers).Error; err != nil {
		logger.Error("Failed to list suppliers", err, map[string]interface{}{
			"search": search,
		})
		return nil, err
	}
	return suppliers, nil
}

func (r *supplierRepository) FindByID(id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.First(&supplier, id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) FindByName(name string, excludeID uint) (*model.Supplier, error) {
	var supplier model.Supplier
	query := r.db.Where("LOWER(company_name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) FindByEmail(email string, excludeID uint) (*model.Supplier, error) {
	var supplier model.Supplier
	query := r.db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) Update(supplier *model.Supplier) error {
	logger.Debug("Updating supplier in database", map[string]interface{}{
		"supplier_id": supplier.ID,
	})

	if err := r.db.Save(supplier).Error; err != nil {
		logger.Error("Failed to update supplier in database", err, map[string]interface{}{
			"supplier_id": supplier.ID,
		})
		return err
	}
	return nil
}

func (r *supplierRepository) Delete(id uint) error {
	logger.Debug("Deleting supplier from database", map[string]interface{}{
		"supplier_id": id,
	})

	if err := r.db.Delete(&model.Supplier{}, id).Error; err != nil {
		logger.Error("Failed to delete supplier from database", err, map[string]interface{}{
			"supplier_id": id,
		})
		return err
	}
	return nil
}

func (r *supplierRepository) CountTemplates(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ProductTemplate{}).Where("supplier_id = ?", id).Count(&count).Error
	return count, err
}
