package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseOrderStatus string // estado de la orden de compra

const (
	PurchaseOrderPending   PurchaseOrderStatus = "pending"   // Pendiente
	PurchaseOrderReceived  PurchaseOrderStatus = "received"  // Recibida
	PurchaseOrderCancelled PurchaseOrderStatus = "cancelled" // Cancelada
)

type PurchaseOrder struct {
	ID         uint                `gorm:"primarykey" json:"id"`
	SupplierID uint                `gorm:"not null;index" json:"supplier_id"`
	Status     PurchaseOrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	Total      decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"total"`
	IssuedAt   time.Time           `json:"issued_at"`
	ReceivedAt *time.Time          `json:"received_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`

	Supplier *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Lines    []PurchaseOrderLine `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

type PurchaseOrderLine struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	VariantID uint            `gorm:"not null;index" json:"variant_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_cost"`

	Variant *Variant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (PurchaseOrderLine) TableName() string {
	return "purchase_order_lines"
}
