package model

import "time"

// AdminRoleName is the built-in role that always holds every permission.
const AdminRoleName = "Admin"

// Modules a role can be granted access to.
var AvailableModules = []string{
	"dashboard", "empresa", "productos", "categorias", "variantes", "ventas",
	"contabilidad", "reportes", "clientes", "proveedores", "compras",
	"auditorias", "perfil", "usuarios", "roles",
}

type Role struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	Permissions []string  `gorm:"type:text;serializer:json" json:"permissions"` // módulos permitidos
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

func (r *Role) IsAdmin() bool {
	return r.Name == AdminRoleName
}
