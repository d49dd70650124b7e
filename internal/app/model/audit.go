package model

import "time"

type AuditStatus string // estado de la auditoría

const (
	AuditInProgress AuditStatus = "in_progress"
	AuditCompleted  AuditStatus = "completed"
	AuditCancelled  AuditStatus = "cancelled"
)

type Audit struct {
	ID         uint        `gorm:"primarykey" json:"id"`
	Status     AuditStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	UserID     uint        `gorm:"not null;index" json:"user_id"`
	Notes      string      `gorm:"type:text" json:"notes"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Lines []AuditLine `gorm:"foreignKey:AuditID" json:"lines,omitempty"`
}

func (Audit) TableName() string {
	return "audits"
}

// AuditLine: Difference = PhysicalCount - SystemStock
type AuditLine struct {
	ID            uint `gorm:"primarykey" json:"id"`
	AuditID       uint `gorm:"not null;uniqueIndex:idx_audit_line_variant" json:"audit_id"`
	VariantID     uint `gorm:"not null;uniqueIndex:idx_audit_line_variant" json:"variant_id"`
	SystemStock   int  `gorm:"not null" json:"system_stock"`
	PhysicalCount int  `gorm:"not null" json:"physical_count"`
	Difference    int  `gorm:"not null" json:"difference"`

	Variant *Variant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (AuditLine) TableName() string {
	return "audit_lines"
}
