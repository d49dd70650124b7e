package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

type AuditService interface {
	StartAudit(userID uint, notes string) (*model.Audit, error)
	RecordCount(auditID, variantID uint, count int) (*model.AuditLine, error)
	FinalizeAudit(auditID uint, userID uint) (*model.Audit, error)
	CancelAudit(auditID uint) error
	GetInProgress() (*model.Audit, error)
	GetAudit(id uint) (*model.Audit, error)
	ListAudits() ([]model.Audit, error)
}

type auditService struct {
	db           *gorm.DB
	auditRepo    repository.AuditRepository
	productRepo  repository.ProductRepository
	stockService StockService
	publisher    StockPublisher
}

func NewAuditService(
	db *gorm.DB,
	auditRepo repository.AuditRepository,
	productRepo repository.ProductRepository,
	stockService StockService,
	publisher StockPublisher,
) AuditService {
	return &auditService{
		db:           db,
		auditRepo:    auditRepo,
		productRepo:  productRepo,
		stockService: stockService,
		publisher:    publisher,
	}
}

func (s *auditService) StartAudit(userID uint, notes string) (*model.Audit, error) {
	current, err := s.auditRepo.FindInProgress()
	if err == nil {
		logger.Warn("Audit already in progress", map[string]interface{}{
			"audit_id": current.ID,
		})
		return nil, fmt.Errorf("%w (ID: %d)", ErrAuditInProgress, current.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	audit := &model.Audit{
		Status:    model.AuditInProgress,
		UserID:    userID,
		Notes:     strings.TrimSpace(notes),
		StartedAt: time.Now(),
	}
	if err := s.auditRepo.Create(audit); err != nil {
		return nil, err
	}
	logger.Info("Audit started", map[string]interface{}{
		"audit_id": audit.ID,
		"user_id":  userID,
	})
	return audit, nil
}

func (s *auditService) openAudit(id uint) (*model.Audit, error) {
	audit, err := s.GetAudit(id)
	if err != nil {
		return nil, err
	}
	if audit.Status != model.AuditInProgress {
		return nil, ErrAuditNotInProgress
	}
	return audit, nil
}

// RecordCount stores the physical count of a variant. Counting the same
// variant again replaces the count and keeps the first stock snapshot.
func (s *auditService) RecordCount(auditID, variantID uint, count int) (*model.AuditLine, error) {
	if count < 0 {
		return nil, ErrNegativeStock
	}
	audit, err := s.openAudit(auditID)
	if err != nil {
		return nil, err
	}
	variant, err := s.productRepo.FindVariantByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	if variant.Template != nil && variant.Template.IsKit() {
		return nil, ErrKitStockIsDerived
	}

	line, err := s.auditRepo.FindLine(audit.ID, variantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if line == nil {
		line = &model.AuditLine{
			AuditID:     audit.ID,
			VariantID:   variantID,
			SystemStock: variant.Stock,
		}
	}
	line.PhysicalCount = count
	line.Difference = count - variant.Stock

	if err := s.auditRepo.SaveLine(line); err != nil {
		return nil, err
	}
	logger.Debug("Audit count recorded", map[string]interface{}{
		"audit_id":   audit.ID,
		"variant_id": variantID,
		"count":      count,
		"difference": line.Difference,
	})
	return line, nil
}

// FinalizeAudit brings every counted variant to its physical count. The
// difference is taken against the stock at finalization.
func (s *auditService) FinalizeAudit(auditID uint, userID uint) (*model.Audit, error) {
	logger.Info("Finalizing audit", map[string]interface{}{
		"audit_id": auditID,
		"user_id":  userID,
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during audit finalization, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"audit_id": auditID,
			})
		}
	}()
	audits := s.auditRepo.WithTx(tx)
	products := s.productRepo.WithTx(tx)

	audit, err := audits.FindByID(auditID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditNotFound
		}
		return nil, err
	}
	if audit.Status != model.AuditInProgress {
		tx.Rollback()
		return nil, ErrAuditNotInProgress
	}
	if len(audit.Lines) == 0 {
		tx.Rollback()
		return nil, ErrEmptyAudit
	}

	reason := fmt.Sprintf("Ajuste por Auditoría #%d", audit.ID)
	var movements []model.StockMovement
	for _, line := range audit.Lines {
		variant, err := products.FindVariantByID(line.VariantID)
		if err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrVariantNotFound
			}
			return nil, err
		}
		diff := line.PhysicalCount - variant.Stock
		if err := audits.UpdateLineResult(line.ID, variant.Stock, diff); err != nil {
			tx.Rollback()
			return nil, err
		}
		if diff == 0 {
			continue
		}

		kind := model.AdjustCountPositive
		if diff < 0 {
			kind = model.AdjustCountNegative
		}
		movement, err := s.stockService.AdjustStockTx(tx, AdjustStockInput{
			VariantID: line.VariantID,
			Delta:     diff,
			Kind:      kind,
			Reason:    reason,
			UserID:    &userID,
		})
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		movements = append(movements, *movement)
	}

	if err := audits.Finish(audit.ID, model.AuditCompleted, time.Now()); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit audit", err, map[string]interface{}{
			"audit_id": auditID,
		})
		return nil, err
	}
	publishMovements(s.publisher, movements)

	logger.Info("Audit completed", map[string]interface{}{
		"audit_id":    auditID,
		"adjustments": len(movements),
	})
	return s.GetAudit(auditID)
}

func (s *auditService) CancelAudit(auditID uint) error {
	audit, err := s.openAudit(auditID)
	if err != nil {
		return err
	}
	logger.Info("Cancelling audit", map[string]interface{}{
		"audit_id": audit.ID,
	})
	return s.auditRepo.Finish(audit.ID, model.AuditCancelled, time.Now())
}

func (s *auditService) GetInProgress() (*model.Audit, error) {
	audit, err := s.auditRepo.FindInProgress()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditNotFound
		}
		return nil, err
	}
	return audit, nil
}

func (s *auditService) GetAudit(id uint) (*model.Audit, error) {
	audit, err := s.auditRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditNotFound
		}
		return nil, err
	}
	return audit, nil
}

func (s *auditService) ListAudits() ([]model.Audit, error) {
	return s.auditRepo.FindAll()
}
