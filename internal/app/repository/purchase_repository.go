package repository

import (
	"time"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository interface {
	WithTx(tx *gorm.DB) PurchaseRepository
	Create(order *model.PurchaseOrder) error
	FindByID(id uint) (*model.PurchaseOrder, error)
	FindAll(status model.PurchaseOrderStatus) ([]model.PurchaseOrder, error)
	MarkReceived(id uint, at time.Time) error
	UpdateStatus(id uint, status model.PurchaseOrderStatus) error
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) WithTx(tx *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: tx}
}

func (r *purchaseRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Supplier").Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("purchase_order_lines.id ASC").Preload("Variant.Template")
	})
}

// Create inserts the order and its lines
func (r *purchaseRepository) Create(order *model.PurchaseOrder) error {
	logger.Debug("Creating purchase order in database", map[string]interface{}{
		"supplier_id": order.SupplierID,
		"lines":       len(order.Lines),
		"total":       order.Total.String(),
	})

	lines := order.Lines
	if err := r.db.Omit(clause.Associations).Create(order).Error; err != nil {
		logger.Error("Failed to create purchase order in database", err, map[string]interface{}{
			"supplier_id": order.SupplierID,
		})
		return err
	}
	for i := range lines {
		lines[i].OrderID = order.ID
	}
	if len(lines) > 0 {
		if err := r.db.Omit(clause.Associations).Create(&lines).Error; err != nil {
			logger.Error("Failed to create purchase order lines", err, map[string]interface{}{
				"order_id": order.ID,
			})
			return err
		}
	}
	order.Lines = lines

	logger.Debug("Purchase order created in database", map[string]interface{}{
		"order_id": order.ID,
	})
	return nil
}

func (r *purchaseRepository) FindByID(id uint) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *purchaseRepository) FindAll(status model.PurchaseOrderStatus) ([]model.PurchaseOrder, error) {
	query := r.preloadOrder()
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.PurchaseOrder
	if err := query.Order("issued_at DESC, id DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find purchase orders", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return orders, nil
}

func (r *purchaseRepository) MarkReceived(id uint, at time.Time) error {
	logger.Debug("Marking purchase order as received", map[string]interface{}{
		"order_id": id,
	})
	return r.db.Model(&model.PurchaseOrder{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      model.PurchaseOrderReceived,
		"received_at": at,
	}).Error
}

func (r *purchaseRepository) UpdateStatus(id uint, status model.PurchaseOrderStatus) error {
	logger.Debug("Updating purchase order status", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	if err := r.db.Model(&model.PurchaseOrder{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		logger.Error("Failed to update purchase order status", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return err
	}
	return nil
}
