package repository

import (
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockMovementRepository interface {
	WithTx(tx *gorm.DB) StockMovementRepository
	Create(movement *model.StockMovement) error
	FindByVariant(variantID uint) ([]model.StockMovement, error)
	FindRecent(limit int) ([]model.StockMovement, error)
	// SetStock writes newStock only when the row still holds expected.
	SetStock(variantID uint, expected, newStock int) (bool, error)
}

type stockMovementRepository struct {
	db *gorm.DB
}

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) WithTx(tx *gorm.DB) StockMovementRepository {
	return &stockMovementRepository{db: tx}
}

func (r *stockMovementRepository) Create(movement *model.StockMovement) error {
	logger.Debug("Appending stock movement", map[string]interface{}{
		"variant_id":   movement.VariantID,
		"kind":         movement.Kind,
		"delta":        movement.Delta,
		"stock_before": movement.StockBefore,
		"stock_after":  movement.StockAfter,
	})

	if err := r.db.Omit(clause.Associations).Create(movement).Error; err != nil {
		logger.Error("Failed to append stock movement", err, map[string]interface{}{
			"variant_id": movement.VariantID,
			"kind":       movement.Kind,
		})
		return err
	}
	return nil
}

// FindByVariant returns the ledger of a variant in the order it was written
func (r *stockMovementRepository) FindByVariant(variantID uint) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.
		Preload("User").
		Where("variant_id = ?", variantID).
		Order("created_at ASC, id ASC").
		Find(&movements).Error
	if err != nil {
		logger.Error("Failed to find stock movements", err, map[string]interface{}{
			"variant_id": variantID,
		})
		return nil, err
	}
	return movements, nil
}

func (r *stockMovementRepository) FindRecent(limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.
		Preload("Variant.Template").
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepository) SetStock(variantID uint, expected, newStock int) (bool, error) {
	result := r.db.Model(&model.Variant{}).
		Where("id = ? AND stock = ?", variantID, expected).
		Update("stock", newStock)
	if result.Error != nil {
		logger.Error("Failed to update variant stock", result.Error, map[string]interface{}{
			"variant_id": variantID,
			"expected":   expected,
			"new_stock":  newStock,
		})
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
