package model

import "time"

// Company is the single-row fiscal profile of the business.
type Company struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	Name               string    `gorm:"type:varchar(200)" json:"name"`
	RFC                string    `gorm:"column:rfc;type:varchar(13)" json:"rfc"`
	Email              string    `gorm:"type:varchar(100)" json:"email"`
	Phone              string    `gorm:"type:varchar(20)" json:"phone"`
	Street             string    `gorm:"type:varchar(200)" json:"street"`
	Number             string    `gorm:"type:varchar(50)" json:"number"`
	Neighborhood       string    `gorm:"type:varchar(100)" json:"neighborhood"` // colonia
	PostalCode         string    `gorm:"type:varchar(10)" json:"postal_code"`
	City               string    `gorm:"type:varchar(100)" json:"city"`
	State              string    `gorm:"type:varchar(100)" json:"state"`
	RepresentativeName string    `gorm:"type:varchar(200)" json:"representative_name"`
	RepresentativeCURP string    `gorm:"column:representative_curp;type:varchar(18)" json:"representative_curp"`
	LogoPath           string    `gorm:"type:varchar(255)" json:"logo_path"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}
