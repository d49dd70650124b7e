package repository

import (
	"time"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuditRepository interface {
	WithTx(tx *gorm.DB) AuditRepository
	Create(audit *model.Audit) error
	FindByID(id uint) (*model.Audit, error)
	FindInProgress() (*model.Audit, error)
	FindAll() ([]model.Audit, error)
	Finish(id uint, status model.AuditStatus, at time.Time) error

	FindLine(auditID, variantID uint) (*model.AuditLine, error)
	SaveLine(line *model.AuditLine) error
	UpdateLineResult(id uint, systemStock, difference int) error
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) WithTx(tx *gorm.DB) AuditRepository {
	return &auditRepository{db: tx}
}

func (r *auditRepository) preloadAudit() *gorm.DB {
	return r.db.Preload("User").Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("audit_lines.id ASC").Preload("Variant.Template").Preload("Variant.Values")
	})
}

func (r *auditRepository) Create(audit *model.Audit) error {
	logger.Debug("Creating audit in database", map[string]interface{}{
		"user_id": audit.UserID,
	})

	if err := r.db.Omit(clause.Associations).Create(audit).Error; err != nil {
		logger.Error("Failed to create audit in database", err, map[string]interface{}{
			"user_id": audit.UserID,
		})
		return err
	}
	return nil
}

func (r *auditRepository) FindByID(id uint) (*model.Audit, error) {
	var audit model.Audit
	if err := r.preloadAudit().First(&audit, id).Error; err != nil {
		return nil, err
	}
	return &audit, nil
}

func (r *auditRepository) FindInProgress() (*model.Audit, error) {
	var audit model.Audit
	err := r.preloadAudit().Where("status = ?", model.AuditInProgress).Order("id DESC").First(&audit).Error
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

func (r *auditRepository) FindAll() ([]model.Audit, error) {
	var audits []model.Audit
	if err := r.db.Preload("User").Order("started_at DESC, id DESC").Find(&audits).Error; err != nil {
		logger.Error("Failed to find audits", err)
		return nil, err
	}
	return audits, nil
}

func (r *auditRepository) Finish(id uint, status model.AuditStatus, at time.Time) error {
	logger.Debug("Closing audit", map[string]interface{}{
		"audit_id": id,
		"status":   status,
	})

	err := r.db.Model(&model.Audit{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      status,
		"finished_at": at,
	}).Error
	if err != nil {
		logger.Error("Failed to close audit", err, map[string]interface{}{
			"audit_id": id,
		})
		return err
	}
	return nil
}

func (r *auditRepository) FindLine(auditID, variantID uint) (*model.AuditLine, error) {
	var line model.AuditLine
	if err := r.db.Where("audit_id = ? AND variant_id = ?", auditID, variantID).First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *auditRepository) SaveLine(line *model.AuditLine) error {
	return r.db.Omit(clause.Associations).Save(line).Error
}

func (r *auditRepository) UpdateLineResult(id uint, systemStock, difference int) error {
	return r.db.Model(&model.AuditLine{}).Where("id = ?", id).Updates(map[string]interface{}{
		"system_stock": systemStock,
		"difference":   difference,
	}).Error
}
