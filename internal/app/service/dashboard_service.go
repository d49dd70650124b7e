package service

import (
	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
)

const recentMovementLimit = 10

type DashboardKPIs struct {
	TotalIncome     decimal.Decimal       `json:"total_income"`
	CompletedSales  int64                 `json:"completed_sales"`
	UnitsInStock    int                   `json:"units_in_stock"`
	RecentMovements []model.StockMovement `json:"recent_movements"`
}

type DashboardService interface {
	KPIs() (*DashboardKPIs, error)
}

type dashboardService struct {
	accountingRepo repository.AccountingRepository
	saleRepo       repository.SaleRepository
	productRepo    repository.ProductRepository
	movementRepo   repository.StockMovementRepository
}

func NewDashboardService(
	accountingRepo repository.AccountingRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) DashboardService {
	return &dashboardService{
		accountingRepo: accountingRepo,
		saleRepo:       saleRepo,
		productRepo:    productRepo,
		movementRepo:   movementRepo,
	}
}

// KPIs counts stored units only; kit variants hold no stock of their own.
func (s *dashboardService) KPIs() (*DashboardKPIs, error) {
	totals, err := s.accountingRepo.Totals(repository.AccountingFilter{Type: model.MovementIncome})
	if err != nil {
		return nil, err
	}
	completed, err := s.saleRepo.CountByStatus(model.SaleCompleted)
	if err != nil {
		return nil, err
	}
	variants, err := s.productRepo.FindVariants("")
	if err != nil {
		return nil, err
	}
	units := 0
	for _, v := range variants {
		if v.Template != nil && v.Template.IsKit() {
			continue
		}
		units += v.Stock
	}
	recent, err := s.movementRepo.FindRecent(recentMovementLimit)
	if err != nil {
		return nil, err
	}

	return &DashboardKPIs{
		TotalIncome:     totals.Income,
		CompletedSales:  completed,
		UnitsInStock:    units,
		RecentMovements: recent,
	}, nil
}
