package repository

import (
	"time"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleFilter struct {
	Status model.SaleStatus
	UserID uint
	From   *time.Time
	To     *time.Time
}

type SaleRepository interface {
	WithTx(tx *gorm.DB) SaleRepository
	Create(sale *model.Sale) error
	FindByID(id uint) (*model.Sale, error)
	FindActiveByUser(userID uint) (*model.Sale, error)
	FindAll(filter SaleFilter) ([]model.Sale, error)
	CountByStatus(status model.SaleStatus) (int64, error)
	UpdateTotals(sale *model.Sale) error
	UpdateStatus(id uint, status model.SaleStatus) error
	UpdateCustomer(id uint, customerID *uint) error

	FindLine(saleID, variantID uint) (*model.SaleLine, error)
	FindLineByID(saleID, lineID uint) (*model.SaleLine, error)
	SaveLine(line *model.SaleLine) error
	DeleteLine(id uint) error
	CreatePayments(payments []model.SalePayment) error
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) WithTx(tx *gorm.DB) SaleRepository {
	return &saleRepository{db: tx}
}

func (r *saleRepository) preloadSale() *gorm.DB {
	return r.db.
		Preload("User").
		Preload("Customer").
		Preload("Payments").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("sale_lines.id ASC").Preload("Variant.Template").Preload("Variant.Values")
		})
}

func (r *saleRepository) Create(sale *model.Sale) error {
	logger.Debug("Creating sale in database", map[string]interface{}{
		"user_id":     sale.UserID,
		"customer_id": sale.CustomerID,
	})

	if err := r.db.Omit(clause.Associations).Create(sale).Error; err != nil {
		logger.Error("Failed to create sale in database", err, map[string]interface{}{
			"user_id": sale.UserID,
		})
		return err
	}
	return nil
}

func (r *saleRepository) FindByID(id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := r.preloadSale().First(&sale, id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// FindActiveByUser returns the user's open sale, if any
func (r *saleRepository) FindActiveByUser(userID uint) (*model.Sale, error) {
	var sale model.Sale
	err := r.preloadSale().
		Where("user_id = ? AND status = ?", userID, model.SaleInProgress).
		Order("id DESC").
		First(&sale).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindAll(filter SaleFilter) ([]model.Sale, error) {
	query := r.preloadSale()
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	var sales []model.Sale
	if err := query.Order("created_at DESC, id DESC").Find(&sales).Error; err != nil {
		logger.Error("Failed to find sales", err, map[string]interface{}{
			"status":  filter.Status,
			"user_id": filter.UserID,
		})
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) CountByStatus(status model.SaleStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Sale{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *saleRepository) UpdateTotals(sale *model.Sale) error {
	return r.db.Model(&model.Sale{ID: sale.ID}).Updates(map[string]interface{}{
		"subtotal": sale.Subtotal,
		"discount": sale.Discount,
		"tax":      sale.Tax,
		"total":    sale.Total,
	}).Error
}

func (r *saleRepository) UpdateStatus(id uint, status model.SaleStatus) error {
	logger.Debug("Updating sale status", map[string]interface{}{
		"sale_id": id,
		"status":  status,
	})

	if err := r.db.Model(&model.Sale{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		logger.Error("Failed to update sale status", err, map[string]interface{}{
			"sale_id": id,
			"status":  status,
		})
		return err
	}
	return nil
}

func (r *saleRepository) UpdateCustomer(id uint, customerID *uint) error {
	return r.db.Model(&model.Sale{}).Where("id = ?", id).Update("customer_id", customerID).Error
}

func (r *saleRepository) FindLine(saleID, variantID uint) (*model.SaleLine, error) {
	var line model.SaleLine
	if err := r.db.Where("sale_id = ? AND variant_id = ?", saleID, variantID).First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *saleRepository) FindLineByID(saleID, lineID uint) (*model.SaleLine, error) {
	var line model.SaleLine
	if err := r.db.Where("sale_id = ? AND id = ?", saleID, lineID).First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *saleRepository) SaveLine(line *model.SaleLine) error {
	return r.db.Omit(clause.Associations).Save(line).Error
}

func (r *saleRepository) DeleteLine(id uint) error {
	return r.db.Delete(&model.SaleLine{}, id).Error
}

func (r *saleRepository) CreatePayments(payments []model.SalePayment) error {
	if len(payments) == 0 {
		return nil
	}
	return r.db.Create(&payments).Error
}
