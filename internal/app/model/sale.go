package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string    // estado de la venta
type PaymentMethod string // método de pago

const (
	SaleInProgress SaleStatus = "in_progress" // En Progreso
	SaleCompleted  SaleStatus = "completed"   // Completada
	SaleCancelled  SaleStatus = "cancelled"   // Cancelada
	SaleOnHold     SaleStatus = "on_hold"     // En Espera

	PaymentCash        PaymentMethod = "cash"
	PaymentCreditCard  PaymentMethod = "credit_card"
	PaymentDebitCard   PaymentMethod = "debit_card"
	PaymentTransfer    PaymentMethod = "transfer"
	PaymentStoreCredit PaymentMethod = "store_credit"
	PaymentOther       PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentTransfer, PaymentStoreCredit, PaymentOther:
		return true
	}
	return false
}

type Sale struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	Status     SaleStatus      `gorm:"type:varchar(20);not null;index" json:"status"`
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	CustomerID *uint           `gorm:"index" json:"customer_id,omitempty"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Tax        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	User     *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Lines    []SaleLine    `gorm:"foreignKey:SaleID" json:"lines,omitempty"`
	Payments []SalePayment `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
}

func (Sale) TableName() string {
	return "sales"
}

type SaleLine struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	SaleID    uint            `gorm:"not null;index" json:"sale_id"`
	VariantID uint            `gorm:"not null;index" json:"variant_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Discount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`

	Variant *Variant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (SaleLine) TableName() string {
	return "sale_lines"
}

type SalePayment struct {
	ID     uint            `gorm:"primarykey" json:"id"`
	SaleID uint            `gorm:"not null;index" json:"sale_id"`
	Method PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
}

func (SalePayment) TableName() string {
	return "sale_payments"
}
