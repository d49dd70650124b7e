package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string // tipo de movimiento contable

const (
	MovementIncome  MovementType = "ingreso"
	MovementExpense MovementType = "egreso"
)

func (t MovementType) Valid() bool {
	return t == MovementIncome || t == MovementExpense
}

type AccountingMovement struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Type        MovementType    `gorm:"type:varchar(10);not null;index" json:"type"`
	Concept     string          `gorm:"type:varchar(200);not null" json:"concept"`
	Description string          `gorm:"type:text" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Category    string          `gorm:"type:varchar(100)" json:"category"` // Ventas, Compras...
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

func (AccountingMovement) TableName() string {
	return "accounting_movements"
}
