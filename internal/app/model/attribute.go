package model

import "time"

type Attribute struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"` // Color, Talla...
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Values []AttributeValue `gorm:"foreignKey:AttributeID" json:"values,omitempty"`
}

type AttributeValue struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AttributeID uint      `gorm:"not null;index" json:"attribute_id"`
	Value       string    `gorm:"type:varchar(100);not null" json:"value"` // Rojo, XL...
	ColorCode   *string   `gorm:"type:varchar(7)" json:"color_code,omitempty"` // #RRGGBB, sólo para colores
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Attribute *Attribute `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
}

// VariantAttributeValue is the explicit join row between variants and attribute values.
type VariantAttributeValue struct {
	VariantID        uint `gorm:"primaryKey" json:"variant_id"`
	AttributeValueID uint `gorm:"primaryKey;index" json:"attribute_value_id"`
}

func (VariantAttributeValue) TableName() string {
	return "variant_attribute_values"
}
