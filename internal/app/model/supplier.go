package model

import "time"

type Supplier struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CompanyName string    `gorm:"type:varchar(150);not null;uniqueIndex" json:"company_name"` // nombre de la empresa
	ContactName string    `gorm:"type:varchar(150)" json:"contact_name"`
	Email       *string   `gorm:"type:varchar(100);uniqueIndex" json:"email,omitempty"`
	Phone       string    `gorm:"type:varchar(20)" json:"phone"`
	Address     string    `gorm:"type:varchar(255)" json:"address"`
	Website     string    `gorm:"type:varchar(100)" json:"website"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
