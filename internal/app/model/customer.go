package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CustomerStatus string // estado del cliente

const (
	CustomerActive     CustomerStatus = "active"     // Activo
	CustomerInactive   CustomerStatus = "inactive"   // Inactivo
	CustomerDelinquent CustomerStatus = "delinquent" // Moroso
)

func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerActive, CustomerInactive, CustomerDelinquent:
		return true
	}
	return false
}

type Customer struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	FullName     string          `gorm:"type:varchar(150);not null;index" json:"full_name"`
	BusinessName string          `gorm:"type:varchar(200)" json:"business_name"` // razón social
	RFC          *string         `gorm:"column:rfc;type:varchar(13);uniqueIndex" json:"rfc,omitempty"`
	Email        *string         `gorm:"type:varchar(100);uniqueIndex" json:"email,omitempty"`
	Phone        string          `gorm:"type:varchar(20)" json:"phone"`
	Address      string          `gorm:"type:varchar(255)" json:"address"`
	Status       CustomerStatus  `gorm:"type:varchar(20);not null" json:"status"`
	CreditLimit  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"credit_limit"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
