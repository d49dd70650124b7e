package model

import "time"

type User struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	Name          string     `gorm:"type:varchar(100);not null" json:"name"`
	Username      string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"` // usuario de acceso
	PasswordHash  string     `gorm:"not null" json:"-"`
	Active        bool       `gorm:"not null" json:"active"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"` // se fija al desactivar
	RoleID        uint       `gorm:"not null;index" json:"role_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (User) TableName() string {
	return "users"
}
