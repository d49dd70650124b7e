package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

// StockPublisher receives movements once the transaction that wrote them has committed.
type StockPublisher interface {
	PublishMovements(movements []model.StockMovement)
}

func publishMovements(p StockPublisher, movements []model.StockMovement) {
	if p == nil || len(movements) == 0 {
		return
	}
	p.PublishMovements(movements)
}

type AdjustStockInput struct {
	VariantID uint                 `json:"variant_id"`
	Delta     int                  `json:"delta"`
	Kind      model.AdjustmentKind `json:"kind"`
	Reason    string               `json:"reason"`
	UserID    *uint                `json:"-"`
}

// LedgerReport is the result of replaying one variant's movements.
type LedgerReport struct {
	VariantID    uint     `json:"variant_id"`
	SKU          string   `json:"sku"`
	Name         string   `json:"name"`
	Movements    int      `json:"movements"`
	CurrentStock int      `json:"current_stock"`
	LedgerStock  int      `json:"ledger_stock"`
	Consistent   bool     `json:"consistent"`
	Issues       []string `json:"issues,omitempty"`
}

type StockService interface {
	AdjustStock(ctx context.Context, input AdjustStockInput) (*model.StockMovement, error)
	AdjustStockTx(tx *gorm.DB, input AdjustStockInput) (*model.StockMovement, error)
	KitAvailableStock(templateID uint) (int, error)
	Movements(variantID uint) ([]model.StockMovement, error)
	VerifyLedger(variantID uint) (*LedgerReport, error)
	VerifyAllLedgers() ([]LedgerReport, error)
}

type stockService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	publisher    StockPublisher
}

func NewStockService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	publisher StockPublisher,
) StockService {
	return &stockService{
		db:           db,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		publisher:    publisher,
	}
}

// AdjustStock applies a manual adjustment in its own transaction. Sale and
// purchase kinds are reserved for their modules.
func (s *stockService) AdjustStock(ctx context.Context, input AdjustStockInput) (*model.StockMovement, error) {
	logger.Info("Adjusting stock", map[string]interface{}{
		"variant_id": input.VariantID,
		"delta":      input.Delta,
		"kind":       input.Kind,
	})

	if !input.Kind.Manual() {
		logger.Warn("Adjustment kind not allowed for manual adjustment", map[string]interface{}{
			"variant_id": input.VariantID,
			"kind":       input.Kind,
		})
		return nil, ErrInvalidAdjustmentKind
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during stock adjustment, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"variant_id": input.VariantID,
			})
		}
	}()

	movement, err := s.AdjustStockTx(tx, input)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit stock adjustment", err, map[string]interface{}{
			"variant_id": input.VariantID,
		})
		return nil, err
	}

	publishMovements(s.publisher, []model.StockMovement{*movement})
	logger.Info("Stock adjusted", map[string]interface{}{
		"variant_id":  movement.VariantID,
		"movement_id": movement.ID,
		"stock_after": movement.StockAfter,
	})
	return movement, nil
}

// Bounds on a single adjustment and on the stock it may leave, so the sum
// never overflows an int.
const (
	MaxAdjustmentDelta = 1_000_000
	MaxStockLevel      = 1_000_000_000
)

// AdjustStockTx changes a variant's stock and appends the matching ledger row
// inside tx. Nothing is written when a rule fails.
func (s *stockService) AdjustStockTx(tx *gorm.DB, input AdjustStockInput) (*model.StockMovement, error) {
	if input.Delta == 0 {
		return nil, ErrZeroAdjustment
	}
	if input.Delta > MaxAdjustmentDelta || input.Delta < -MaxAdjustmentDelta {
		return nil, fmt.Errorf("%w: %d", ErrAdjustmentTooLarge, input.Delta)
	}
	if !input.Kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAdjustmentKind, input.Kind)
	}
	if input.Kind.Inbound() != (input.Delta > 0) {
		logger.Warn("Adjustment direction does not match kind", map[string]interface{}{
			"variant_id": input.VariantID,
			"kind":       input.Kind,
			"delta":      input.Delta,
		})
		return nil, ErrAdjustmentDirection
	}

	variant, err := s.productRepo.WithTx(tx).FindVariantByID(input.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	if variant.Template != nil && variant.Template.IsKit() {
		return nil, ErrKitStockIsDerived
	}

	newStock := variant.Stock + input.Delta
	if newStock < 0 {
		logger.Warn("Adjustment would leave negative stock", map[string]interface{}{
			"variant_id": variant.ID,
			"stock":      variant.Stock,
			"delta":      input.Delta,
		})
		return nil, fmt.Errorf("%w: %s tiene %d unidades", ErrNegativeStock, variant.SKU, variant.Stock)
	}
	if newStock > MaxStockLevel {
		return nil, fmt.Errorf("%w: %s quedaría con %d unidades", ErrAdjustmentTooLarge, variant.SKU, newStock)
	}

	movements := s.movementRepo.WithTx(tx)
	updated, err := movements.SetStock(variant.ID, variant.Stock, newStock)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrStockConflict
	}

	movement := &model.StockMovement{
		VariantID:   variant.ID,
		UserID:      input.UserID,
		Kind:        input.Kind,
		Delta:       input.Delta,
		Reason:      strings.TrimSpace(input.Reason),
		StockBefore: variant.Stock,
		StockAfter:  newStock,
	}
	if err := movements.Create(movement); err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *stockService) KitAvailableStock(templateID uint) (int, error) {
	return kitAvailableStockTx(s.productRepo, templateID)
}

func kitAvailableStockTx(products repository.ProductRepository, templateID uint) (int, error) {
	components, err := products.FindComponents(templateID)
	if err != nil {
		return 0, err
	}
	return computeKitStock(components), nil
}

// computeKitStock is the number of whole kits the component stock can build.
func computeKitStock(components []model.KitComponent) int {
	if len(components) == 0 {
		return 0
	}
	available := -1
	for _, c := range components {
		if c.Quantity <= 0 || c.Component == nil {
			return 0
		}
		stock := c.Component.Stock
		if stock < 0 {
			stock = 0
		}
		kits := stock / c.Quantity
		if available < 0 || kits < available {
			available = kits
		}
	}
	return available
}

func (s *stockService) Movements(variantID uint) ([]model.StockMovement, error) {
	if _, err := s.productRepo.FindVariantByID(variantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return s.movementRepo.FindByVariant(variantID)
}

func (s *stockService) VerifyLedger(variantID uint) (*LedgerReport, error) {
	variant, err := s.productRepo.FindVariantByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	movements, err := s.movementRepo.FindByVariant(variantID)
	if err != nil {
		return nil, err
	}
	return replayLedger(variant, movements), nil
}

// replayLedger walks the movements from an empty shelf and checks each row
// continues the previous one.
func replayLedger(variant *model.Variant, movements []model.StockMovement) *LedgerReport {
	report := &LedgerReport{
		VariantID:    variant.ID,
		SKU:          variant.SKU,
		Name:         variant.DisplayName(),
		Movements:    len(movements),
		CurrentStock: variant.Stock,
	}

	running := 0
	for _, m := range movements {
		if m.StockBefore != running {
			report.Issues = append(report.Issues, fmt.Sprintf("movimiento %d: stock_before %d, se esperaba %d", m.ID, m.StockBefore, running))
		}
		if m.StockAfter != m.StockBefore+m.Delta {
			report.Issues = append(report.Issues, fmt.Sprintf("movimiento %d: stock_after %d no es %d%+d", m.ID, m.StockAfter, m.StockBefore, m.Delta))
		}
		running = m.StockAfter
	}
	report.LedgerStock = running
	if running != variant.Stock {
		report.Issues = append(report.Issues, fmt.Sprintf("el stock actual %d no coincide con el historial %d", variant.Stock, running))
	}
	report.Consistent = len(report.Issues) == 0
	return report
}

func (s *stockService) VerifyAllLedgers() ([]LedgerReport, error) {
	variants, err := s.productRepo.FindVariants("")
	if err != nil {
		return nil, err
	}

	var reports []LedgerReport
	for i := range variants {
		variant := &variants[i]
		if variant.Template != nil && variant.Template.IsKit() {
			continue
		}
		movements, err := s.movementRepo.FindByVariant(variant.ID)
		if err != nil {
			return nil, err
		}
		report := replayLedger(variant, movements)
		if !report.Consistent {
			logger.Warn("Ledger mismatch detected", map[string]interface{}{
				"variant_id": variant.ID,
				"variant":    report.Name,
				"issues":     report.Issues,
			})
		}
		reports = append(reports, *report)
	}
	return reports, nil
}
