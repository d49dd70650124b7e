package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

const purchasesCategory = "Compras"

type PurchaseLineInput struct {
	VariantID uint            `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

type PurchaseService interface {
	CreateOrder(supplierID uint, lines []PurchaseLineInput) (*model.PurchaseOrder, error)
	ReceiveOrder(id uint, userID *uint) (*model.PurchaseOrder, error)
	CancelOrder(id uint) (*model.PurchaseOrder, error)
	ListOrders(status model.PurchaseOrderStatus) ([]model.PurchaseOrder, error)
	GetOrder(id uint) (*model.PurchaseOrder, error)
}

type purchaseService struct {
	db             *gorm.DB
	purchaseRepo   repository.PurchaseRepository
	supplierRepo   repository.SupplierRepository
	productRepo    repository.ProductRepository
	accountingRepo repository.AccountingRepository
	stockService   StockService
	publisher      StockPublisher
}

func NewPurchaseService(
	db *gorm.DB,
	purchaseRepo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	accountingRepo repository.AccountingRepository,
	stockService StockService,
	publisher StockPublisher,
) PurchaseService {
	return &purchaseService{
		db:             db,
		purchaseRepo:   purchaseRepo,
		supplierRepo:   supplierRepo,
		productRepo:    productRepo,
		accountingRepo: accountingRepo,
		stockService:   stockService,
		publisher:      publisher,
	}
}

func (s *purchaseService) CreateOrder(supplierID uint, lines []PurchaseLineInput) (*model.PurchaseOrder, error) {
	logger.Info("Creating purchase order", map[string]interface{}{
		"supplier_id": supplierID,
		"lines":       len(lines),
	})

	if _, err := s.supplierRepo.FindByID(supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	order := &model.PurchaseOrder{
		SupplierID: supplierID,
		Status:     model.PurchaseOrderPending,
		Total:      decimal.Zero,
		IssuedAt:   time.Now(),
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if line.UnitCost.IsNegative() {
			return nil, ErrInvalidPrice
		}
		variant, err := s.productRepo.FindVariantByID(line.VariantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %d", ErrVariantNotFound, line.VariantID)
			}
			return nil, err
		}
		if variant.Template != nil && variant.Template.IsKit() {
			return nil, ErrKitStockIsDerived
		}

		order.Lines = append(order.Lines, model.PurchaseOrderLine{
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
		})
		order.Total = order.Total.Add(line.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	if err := s.purchaseRepo.Create(order); err != nil {
		return nil, err
	}
	logger.Info("Purchase order created", map[string]interface{}{
		"order_id": order.ID,
		"total":    order.Total.String(),
	})
	return s.GetOrder(order.ID)
}

// ReceiveOrder books every line into stock and records the expense in one transaction.
func (s *purchaseService) ReceiveOrder(id uint, userID *uint) (*model.PurchaseOrder, error) {
	logger.Info("Receiving purchase order", map[string]interface{}{
		"order_id": id,
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during purchase receipt, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"order_id": id,
			})
		}
	}()
	purchases := s.purchaseRepo.WithTx(tx)

	order, err := purchases.FindByID(id)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseOrderNotFound
		}
		return nil, err
	}
	if order.Status != model.PurchaseOrderPending {
		tx.Rollback()
		logger.Warn("Purchase order is not pending", map[string]interface{}{
			"order_id": id,
			"status":   order.Status,
		})
		return nil, ErrOrderNotPending
	}

	reason := fmt.Sprintf("Recepción de Orden de Compra #%d", order.ID)
	var movements []model.StockMovement
	for _, line := range order.Lines {
		movement, err := s.stockService.AdjustStockTx(tx, AdjustStockInput{
			VariantID: line.VariantID,
			Delta:     line.Quantity,
			Kind:      model.AdjustPurchaseIn,
			Reason:    reason,
			UserID:    userID,
		})
		if err != nil {
			tx.Rollback()
			logger.Error("Failed to book purchase line", err, map[string]interface{}{
				"order_id":   id,
				"variant_id": line.VariantID,
			})
			return nil, err
		}
		movements = append(movements, *movement)
	}

	if order.Total.IsPositive() {
		if err := s.accountingRepo.WithTx(tx).Create(&model.AccountingMovement{
			Type:     model.MovementExpense,
			Concept:  fmt.Sprintf("Orden de compra #%d", order.ID),
			Amount:   order.Total,
			Category: purchasesCategory,
		}); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := purchases.MarkReceived(order.ID, time.Now()); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit purchase receipt", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	publishMovements(s.publisher, movements)

	logger.Info("Purchase order received", map[string]interface{}{
		"order_id": id,
		"lines":    len(order.Lines),
	})
	return s.GetOrder(id)
}

func (s *purchaseService) CancelOrder(id uint) (*model.PurchaseOrder, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order.Status != model.PurchaseOrderPending {
		return nil, ErrOrderNotPending
	}
	if err := s.purchaseRepo.UpdateStatus(id, model.PurchaseOrderCancelled); err != nil {
		return nil, err
	}
	logger.Info("Purchase order cancelled", map[string]interface{}{
		"order_id": id,
	})
	order.Status = model.PurchaseOrderCancelled
	return order, nil
}

func (s *purchaseService) ListOrders(status model.PurchaseOrderStatus) ([]model.PurchaseOrder, error) {
	return s.purchaseRepo.FindAll(status)
}

func (s *purchaseService) GetOrder(id uint) (*model.PurchaseOrder, error) {
	order, err := s.purchaseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseOrderNotFound
		}
		return nil, err
	}
	return order, nil
}
