package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TemplateKind string // tipo de plantilla

const (
	TemplateKindSimple  TemplateKind = "simple"  // una sola variante sin atributos
	TemplateKindVariant TemplateKind = "variant" // variantes por atributos
	TemplateKindKit     TemplateKind = "kit"     // paquete de componentes, stock derivado
)

func (k TemplateKind) Valid() bool {
	switch k {
	case TemplateKindSimple, TemplateKindVariant, TemplateKindKit:
		return true
	}
	return false
}

// Label is the name used in the catalog CSV (tipo_producto column).
func (k TemplateKind) Label() string {
	switch k {
	case TemplateKindSimple:
		return "Simple"
	case TemplateKindVariant:
		return "Variante"
	case TemplateKindKit:
		return "Kit"
	}
	return string(k)
}

type ProductTemplate struct {
	ID         uint         `gorm:"primarykey" json:"id"`
	Name       string       `gorm:"type:varchar(200);not null;uniqueIndex" json:"name"` // nombre de la plantilla
	Active     bool         `gorm:"not null" json:"active"`
	Kind       TemplateKind `gorm:"type:varchar(20);not null" json:"kind"` // fijo tras la creación (salvo simple -> variant)
	CategoryID *uint        `gorm:"index" json:"category_id,omitempty"`
	SupplierID *uint        `gorm:"index" json:"supplier_id,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	Category   *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Supplier   *Supplier      `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Variants   []Variant      `gorm:"foreignKey:TemplateID" json:"variants,omitempty"`
	Images     []ProductImage `gorm:"foreignKey:TemplateID" json:"images,omitempty"`
	Components []KitComponent `gorm:"foreignKey:KitTemplateID" json:"components,omitempty"`
}

func (ProductTemplate) TableName() string {
	return "product_templates"
}

// IsKit reports whether stock of the template is derived from its components.
func (t *ProductTemplate) IsKit() bool {
	return t.Kind == TemplateKindKit
}

type Variant struct {
	ID           uint                `gorm:"primarykey" json:"id"`
	TemplateID   uint                `gorm:"not null;index" json:"template_id"`
	SKU          string              `gorm:"column:sku;type:varchar(100);not null;uniqueIndex" json:"sku"`
	BarcodeUPC   *string             `gorm:"column:barcode_upc;type:varchar(12);uniqueIndex" json:"barcode_upc,omitempty"`
	BarcodeEAN   *string             `gorm:"column:barcode_ean;type:varchar(13);uniqueIndex" json:"barcode_ean,omitempty"`
	Stock        int                 `gorm:"not null;default:0" json:"stock"` // siempre 0 para kits
	SalePrice    decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"sale_price"`
	PurchaseCost decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"purchase_cost"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	Template *ProductTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	Values   []AttributeValue `gorm:"many2many:variant_attribute_values" json:"values,omitempty"`
}

func (Variant) TableName() string {
	return "variants"
}

// DisplayName joins the template name with the variant's attribute values.
func (v *Variant) DisplayName() string {
	name := v.SKU
	if v.Template != nil {
		name = v.Template.Name
	}
	if len(v.Values) == 0 {
		return name
	}
	parts := make([]string, 0, len(v.Values))
	for _, val := range v.Values {
		parts = append(parts, val.Value)
	}
	return name + " (" + strings.Join(parts, ", ") + ")"
}

type ProductImage struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	TemplateID uint      `gorm:"not null;index" json:"template_id"`
	Path       string    `gorm:"type:varchar(500);not null" json:"path"` // ruta local o URL del objeto
	SortOrder  int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

type KitComponent struct {
	ID            uint `gorm:"primarykey" json:"id"`
	KitTemplateID uint `gorm:"not null;index" json:"kit_template_id"`
	ComponentID   uint `gorm:"not null;index" json:"component_id"` // variante que se consume
	Quantity      int  `gorm:"not null" json:"quantity"`

	Component *Variant `gorm:"foreignKey:ComponentID" json:"component,omitempty"`
}

func (KitComponent) TableName() string {
	return "kit_components"
}
