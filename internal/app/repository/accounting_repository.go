package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

type AccountingFilter struct {
	Type model.MovementType
	From *time.Time
	To   *time.Time
}

type AccountingTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

type AccountingRepository interface {
	WithTx(tx *gorm.DB) AccountingRepository
	Create(movement *model.AccountingMovement) error
	FindAll(filter AccountingFilter) ([]model.AccountingMovement, error)
	Totals(filter AccountingFilter) (*AccountingTotals, error)
}

type accountingRepository struct {
	db *gorm.DB
}

func NewAccountingRepository(db *gorm.DB) AccountingRepository {
	return &accountingRepository{db: db}
}

func (r *accountingRepository) WithTx(tx *gorm.DB) AccountingRepository {
	return &accountingRepository{db: tx}
}

func (r *accountingRepository) Create(movement *model.AccountingMovement) error {
	logger.Debug("Creating accounting movement", map[string]interface{}{
		"type":     movement.Type,
		"concept":  movement.Concept,
		"amount":   movement.Amount.String(),
		"category": movement.Category,
	})

	if err := r.db.Create(movement).Error; err != nil {
		logger.Error("Failed to create accounting movement", err, map[string]interface{}{
			"type":    movement.Type,
			"concept": movement.Concept,
		})
		return err
	}
	return nil
}

func (r *accountingRepository) filtered(filter AccountingFilter) *gorm.DB {
	query := r.db.Model(&model.AccountingMovement{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	return query
}

func (r *accountingRepository) FindAll(filter AccountingFilter) ([]model.AccountingMovement, error) {
	var movements []model.AccountingMovement
	if err := r.filtered(filter).Order("created_at DESC, id DESC").Find(&movements).Error; err != nil {
		logger.Error("Failed to find accounting movements", err)
		return nil, err
	}
	return movements, nil
}

// Totals sums income and expense in Go so the amounts stay exact on every driver
func (r *accountingRepository) Totals(filter AccountingFilter) (*AccountingTotals, error) {
	var rows []struct {
		Type   model.MovementType
		Amount decimal.Decimal
	}
	if err := r.filtered(filter).Select("type", "amount").Find(&rows).Error; err != nil {
		logger.Error("Failed to total accounting movements", err)
		return nil, err
	}

	totals := &AccountingTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, row := range rows {
		switch row.Type {
		case model.MovementIncome:
			totals.Income = totals.Income.Add(row.Amount)
		case model.MovementExpense:
			totals.Expense = totals.Expense.Add(row.Amount)
		}
	}
	return totals, nil
}
