package repository

import (
	"strings"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	WithTx(tx *gorm.DB) CustomerRepository
	Create(customer *model.Customer) error
	FindAll(search string) ([]model.Customer, error)
	FindByID(id uint) (*model.Customer, error)
	FindByEmail(email string, excludeID uint) (*model.Customer, error)
	FindByRFC(rfc string, excludeID uint) (*model.Customer, error)
	Update(customer *model.Customer) error
	Delete(id uint) error
	CountSales(id uint) (int64, error)
	FindSales(id uint) ([]model.Sale, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) WithTx(tx *gorm.DB) CustomerRepository {
	return &customerRepository{db: tx}
}

func (r *customerRepository) Create(customer *model.Customer) error {
	logger.Debug("Creating customer in database", map[string]interface{}{
		"full_name": customer.FullName,
	})

	if err := r.db.Create(customer).Error; err != nil {
		logger.Error("Failed to create customer in database", err, map[string]interface{}{
			"full_name": customer.FullName,
		})
		return err
	}
	return nil
}

// FindAll filters by name, RFC or email when search is not empty
func (r *customerRepository) FindAll(search string) ([]model.Customer, error) {
	var customers []model.Customer
	query := r.db.Order("full_name ASC")
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(rfc) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}
	if err := query.Find(&customers).Error; err != nil {
		logger.Error("Failed to list customers", err, map[string]interface{}{
			"search": search,
		})
		return nil, err
	}
	return customers, nil
}

func (r *customerRepository) FindByID(id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByEmail(email string, excludeID uint) (*model.Customer, error) {
	var customer model.Customer
	query := r.db.Where("LOWER(email) = ?", strings.ToLower(email))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByRFC(rfc string, excludeID uint) (*model.Customer, error) {
	var customer model.Customer
	query := r.db.Where("UPPER(rfc) = ?", strings.ToUpper(rfc))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Update(customer *model.Customer) error {
	logger.Debug("Updating customer in database", map[string]interface{}{
		"customer_id": customer.ID,
	})

	if err := r.db.Save(customer).Error; err != nil {
		logger.Error("Failed to update customer in database", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		return err
	}
	return nil
}

func (r *customerRepository) Delete(id uint) error {
	logger.Debug("Deleting customer from database", map[string]interface{}{
		"customer_id": id,
	})

	if err := r.db.Delete(&model.Customer{}, id).Error; err != nil {
		logger.Error("Failed to delete customer from database", err, map[string]interface{}{
			"customer_id": id,
		})
		return err
	}
	return nil
}

func (r *customerRepository) CountSales(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Sale{}).Where("customer_id = ?", id).Count(&count).Error
	return count, err
}

// FindSales returns the customer's sales, newest first
func (r *customerRepository) FindSales(id uint) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.
		Preload("Lines.Variant.Template").
		Where("customer_id = ?", id).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}
