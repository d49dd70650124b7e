package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

const salesCategory = "Ventas"

type PaymentInput struct {
	Method model.PaymentMethod `json:"method"`
	Amount decimal.Decimal     `json:"amount"`
}

type SaleService interface {
	StartSale(userID uint, customerID *uint) (*model.Sale, error)
	GetActiveSale(userID uint) (*model.Sale, error)
	GetSale(id uint) (*model.Sale, error)
	AddItem(saleID, variantID uint, quantity int) (*model.Sale, error)
	// RemoveItem returns nil when the last line was removed and the sale was cancelled.
	RemoveItem(saleID, lineID uint) (*model.Sale, error)
	FinalizeSale(saleID uint, payments []PaymentInput) (*model.Sale, error)
	CancelSale(saleID uint) error
	ListSales(filter repository.SaleFilter) ([]model.Sale, error)
}

type saleService struct {
	db             *gorm.DB
	saleRepo       repository.SaleRepository
	productRepo    repository.ProductRepository
	customerRepo   repository.CustomerRepository
	accountingRepo repository.AccountingRepository
	stockService   StockService
	publisher      StockPublisher
}

func NewSaleService(
	db *gorm.DB,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	accountingRepo repository.AccountingRepository,
	stockService StockService,
	publisher StockPublisher,
) SaleService {
	return &saleService{
		db:             db,
		saleRepo:       saleRepo,
		productRepo:    productRepo,
		customerRepo:   customerRepo,
		accountingRepo: accountingRepo,
		stockService:   stockService,
		publisher:      publisher,
	}
}

// StartSale opens a new sale for the user, cancelling any sale they left open.
func (s *saleService) StartSale(userID uint, customerID *uint) (*model.Sale, error) {
	logger.Info("Starting sale", map[string]interface{}{
		"user_id":     userID,
		"customer_id": customerID,
	})

	if customerID != nil {
		if _, err := s.customerRepo.FindByID(*customerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCustomerNotFound
			}
			return nil, err
		}
	}

	existing, err := s.saleRepo.FindActiveByUser(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		logger.Info("Cancelling previous open sale", map[string]interface{}{
			"sale_id": existing.ID,
			"user_id": userID,
		})
		if err := s.saleRepo.UpdateStatus(existing.ID, model.SaleCancelled); err != nil {
			return nil, err
		}
	}

	sale := &model.Sale{
		Status:     model.SaleInProgress,
		UserID:     userID,
		CustomerID: customerID,
		Subtotal:   decimal.Zero,
		Discount:   decimal.Zero,
		Tax:        decimal.Zero,
		Total:      decimal.Zero,
	}
	if err := s.saleRepo.Create(sale); err != nil {
		return nil, err
	}
	return s.GetSale(sale.ID)
}

func (s *saleService) GetActiveSale(userID uint) (*model.Sale, error) {
	sale, err := s.saleRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

func (s *saleService) GetSale(id uint) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

func (s *saleService) openSale(id uint) (*model.Sale, error) {
	sale, err := s.GetSale(id)
	if err != nil {
		return nil, err
	}
	if sale.Status != model.SaleInProgress {
		return nil, ErrSaleNotInProgress
	}
	return sale, nil
}

// availableFor returns the units of a variant that can be sold now.
func (s *saleService) availableFor(variant *model.Variant) (int, error) {
	if variant.Template != nil && variant.Template.IsKit() {
		return kitAvailableStockTx(s.productRepo, variant.TemplateID)
	}
	return variant.Stock, nil
}

func (s *saleService) AddItem(saleID, variantID uint, quantity int) (*model.Sale, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	sale, err := s.openSale(saleID)
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

	line, err := s.saleRepo.FindLine(sale.ID, variantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if line == nil {
		line = &model.SaleLine{
			SaleID:    sale.ID,
			VariantID: variantID,
			UnitPrice: variant.SalePrice,
			Discount:  decimal.Zero,
		}
	}
	wanted := line.Quantity + quantity

	available, err := s.availableFor(variant)
	if err != nil {
		return nil, err
	}
	if available < wanted {
		logger.Warn("Insufficient stock for sale line", map[string]interface{}{
			"sale_id":    sale.ID,
			"variant_id": variantID,
			"wanted":     wanted,
			"available":  available,
		})
		return nil, fmt.Errorf("%w para %s. Disponible: %d", ErrInsufficientStock, variant.SKU, available)
	}

	line.Quantity = wanted
	line.Subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Sub(line.Discount)
	if err := s.saleRepo.SaveLine(line); err != nil {
		return nil, err
	}
	return s.recalculate(sale.ID)
}

func (s *saleService) RemoveItem(saleID, lineID uint) (*model.Sale, error) {
	sale, err := s.openSale(saleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.saleRepo.FindLineByID(sale.ID, lineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleLineNotFound
		}
		return nil, err
	}
	if err := s.saleRepo.DeleteLine(lineID); err != nil {
		return nil, err
	}

	if len(sale.Lines) <= 1 {
		logger.Info("Last line removed, cancelling sale", map[string]interface{}{
			"sale_id": sale.ID,
		})
		if err := s.saleRepo.UpdateStatus(sale.ID, model.SaleCancelled); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return s.recalculate(sale.ID)
}

// recalculate reloads the sale and stores totals summed from its lines.
func (s *saleService) recalculate(saleID uint) (*model.Sale, error) {
	sale, err := s.GetSale(saleID)
	if err != nil {
		return nil, err
	}
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, line := range sale.Lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		discount = discount.Add(line.Discount)
	}
	sale.Subtotal = subtotal
	sale.Discount = discount
	sale.Total = subtotal.Sub(discount).Add(sale.Tax)
	if err := s.saleRepo.UpdateTotals(sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// FinalizeSale takes payment, debits stock and books the income in one transaction.
func (s *saleService) FinalizeSale(saleID uint, payments []PaymentInput) (*model.Sale, error) {
	logger.Info("Finalizing sale", map[string]interface{}{
		"sale_id":  saleID,
		"payments": len(payments),
	})

	paid := decimal.Zero
	for _, p := range payments {
		if !p.Method.Valid() {
			return nil, ErrInvalidPayment
		}
		if !p.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}
		paid = paid.Add(p.Amount)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during sale finalization, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"sale_id": saleID,
			})
		}
	}()
	sales := s.saleRepo.WithTx(tx)
	products := s.productRepo.WithTx(tx)

	sale, err := sales.FindByID(saleID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	if sale.Status != model.SaleInProgress {
		tx.Rollback()
		return nil, ErrSaleNotInProgress
	}
	if len(sale.Lines) == 0 {
		tx.Rollback()
		return nil, ErrEmptySale
	}
	if paid.LessThan(sale.Total) {
		tx.Rollback()
		logger.Warn("Insufficient payment", map[string]interface{}{
			"sale_id": saleID,
			"total":   sale.Total.String(),
			"paid":    paid.String(),
		})
		return nil, ErrInsufficientPayment
	}

	reason := fmt.Sprintf("Venta #%d", sale.ID)
	userID := sale.UserID
	var movements []model.StockMovement
	debit := func(variantID uint, qty int) error {
		movement, err := s.stockService.AdjustStockTx(tx, AdjustStockInput{
			VariantID: variantID,
			Delta:     -qty,
			Kind:      model.AdjustSaleOut,
			Reason:    reason,
			UserID:    &userID,
		})
		if err != nil {
			return err
		}
		movements = append(movements, *movement)
		return nil
	}

	for _, line := range sale.Lines {
		if line.Variant != nil && line.Variant.Template != nil && line.Variant.Template.IsKit() {
			components, err := products.FindComponents(line.Variant.TemplateID)
			if err == nil && len(components) == 0 {
				err = fmt.Errorf("%w: el kit no tiene componentes", ErrInsufficientStock)
			}
			for _, c := range components {
				if err != nil {
					break
				}
				err = debit(c.ComponentID, line.Quantity*c.Quantity)
			}
			if err != nil {
				tx.Rollback()
				return nil, err
			}
			continue
		}
		if err := debit(line.VariantID, line.Quantity); err != nil {
			tx.Rollback()
			logger.Warn("Sale line could not be debited", map[string]interface{}{
				"sale_id":    saleID,
				"variant_id": line.VariantID,
				"error":      err.Error(),
			})
			return nil, err
		}
	}

	rows := make([]model.SalePayment, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, model.SalePayment{SaleID: sale.ID, Method: p.Method, Amount: p.Amount})
	}
	if err := sales.CreatePayments(rows); err != nil {
		tx.Rollback()
		return nil, err
	}

	if sale.Total.IsPositive() {
		if err := s.accountingRepo.WithTx(tx).Create(&model.AccountingMovement{
			Type:     model.MovementIncome,
			Concept:  fmt.Sprintf("Ingreso por Venta #%d", sale.ID),
			Amount:   sale.Total,
			Category: salesCategory,
		}); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := sales.UpdateStatus(sale.ID, model.SaleCompleted); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit sale", err, map[string]interface{}{
			"sale_id": saleID,
		})
		return nil, err
	}
	publishMovements(s.publisher, movements)

	logger.Info("Sale completed", map[string]interface{}{
		"sale_id": saleID,
		"total":   sale.Total.String(),
	})
	return s.GetSale(saleID)
}

func (s *saleService) CancelSale(saleID uint) error {
	sale, err := s.openSale(saleID)
	if err != nil {
		return err
	}
	logger.Info("Cancelling sale", map[string]interface{}{
		"sale_id": sale.ID,
	})
	return s.saleRepo.UpdateStatus(sale.ID, model.SaleCancelled)
}

func (s *saleService) ListSales(filter repository.SaleFilter) ([]model.Sale, error) {
	return s.saleRepo.FindAll(filter)
}
