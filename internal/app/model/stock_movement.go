package model

import "time"

type AdjustmentKind string // tipo de ajuste de inventario

const (
	AdjustPurchaseIn        AdjustmentKind = "purchase_in"
	AdjustManualIn          AdjustmentKind = "manual_in"
	AdjustReturnIn          AdjustmentKind = "return_in"
	AdjustCountPositive     AdjustmentKind = "count_adjust_positive"
	AdjustCountNegative     AdjustmentKind = "count_adjust_negative"
	AdjustSaleOut           AdjustmentKind = "sale_out"
	AdjustBreakageOut       AdjustmentKind = "breakage_out"
	AdjustShrinkageOut      AdjustmentKind = "shrinkage_out"
	AdjustSupplierReturnOut AdjustmentKind = "supplier_return_out"
)

// AdjustmentKinds lists every kind in display order.
var AdjustmentKinds = []AdjustmentKind{
	AdjustPurchaseIn,
	AdjustManualIn,
	AdjustReturnIn,
	AdjustCountPositive,
	AdjustCountNegative,
	AdjustSaleOut,
	AdjustBreakageOut,
	AdjustShrinkageOut,
	AdjustSupplierReturnOut,
}

func (k AdjustmentKind) Valid() bool {
	for _, known := range AdjustmentKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Inbound reports whether the kind adds units; outbound kinds remove them.
func (k AdjustmentKind) Inbound() bool {
	switch k {
	case AdjustPurchaseIn, AdjustManualIn, AdjustReturnIn, AdjustCountPositive:
		return true
	}
	return false
}

// Manual reports whether a user may pick the kind from the adjustment form.
// Sales and purchase receipts only come from their own modules.
func (k AdjustmentKind) Manual() bool {
	return k.Valid() && k != AdjustSaleOut && k != AdjustPurchaseIn
}

func (k AdjustmentKind) Label() string {
	switch k {
	case AdjustPurchaseIn:
		return "Entrada por Compra"
	case AdjustManualIn:
		return "Entrada Manual"
	case AdjustReturnIn:
		return "Entrada por Devolución"
	case AdjustCountPositive:
		return "Ajuste por Conteo (Sobrante)"
	case AdjustCountNegative:
		return "Ajuste por Conteo (Faltante)"
	case AdjustSaleOut:
		return "Salida por Venta"
	case AdjustBreakageOut:
		return "Salida por Rotura o Daño"
	case AdjustShrinkageOut:
		return "Salida por Merma"
	case AdjustSupplierReturnOut:
		return "Salida a Proveedor"
	}
	return string(k)
}

// StockMovement is an append-only ledger row. StockAfter = StockBefore + Delta.
type StockMovement struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	VariantID   uint           `gorm:"not null;index" json:"variant_id"`
	UserID      *uint          `gorm:"index" json:"user_id,omitempty"`
	Kind        AdjustmentKind `gorm:"type:varchar(30);not null" json:"kind"`
	Delta       int            `gorm:"not null" json:"delta"`
	Reason      string         `gorm:"type:varchar(255)" json:"reason"`
	StockBefore int            `gorm:"not null" json:"stock_before"`
	StockAfter  int            `gorm:"not null" json:"stock_after"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`

	Variant *Variant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}
