package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"github.com/sibors/sibors-backend/pkg/util"
)

type AccountingInput struct {
	Type        model.MovementType `json:"type"`
	Concept     string             `json:"concept"`
	Description string             `json:"description"`
	Amount      decimal.Decimal    `json:"amount"`
	Category    string             `json:"category"`
}

type AccountingSummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// DailySummary is one calendar day of the summary chart.
type DailySummary struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type AccountingService interface {
	AddMovement(input AccountingInput) (*model.AccountingMovement, error)
	ListMovements(filter repository.AccountingFilter) ([]model.AccountingMovement, error)
	Summary(filter repository.AccountingFilter) (*AccountingSummary, error)
	// DailySummary covers the last days up to today, oldest first, empty days included.
	DailySummary(days int) ([]DailySummary, error)
}

type accountingService struct {
	accountingRepo repository.AccountingRepository
	now            func() time.Time
}

func NewAccountingService(accountingRepo repository.AccountingRepository) AccountingService {
	return &accountingService{accountingRepo: accountingRepo, now: time.Now}
}

func (s *accountingService) AddMovement(input AccountingInput) (*model.AccountingMovement, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, input.Type)
	}
	concept := util.SanitizeString(input.Concept)
	if !util.MinLength(concept, 3) {
		return nil, ErrConceptTooShort
	}
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	movement := &model.AccountingMovement{
		Type:        input.Type,
		Concept:     concept,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount.Round(2),
		Category:    util.SanitizeString(input.Category),
	}
	if err := s.accountingRepo.Create(movement); err != nil {
		return nil, err
	}
	logger.Info("Accounting movement recorded", map[string]interface{}{
		"movement_id": movement.ID,
		"type":        movement.Type,
		"amount":      movement.Amount.String(),
	})
	return movement, nil
}

func (s *accountingService) ListMovements(filter repository.AccountingFilter) ([]model.AccountingMovement, error) {
	return s.accountingRepo.FindAll(filter)
}

func (s *accountingService) Summary(filter repository.AccountingFilter) (*AccountingSummary, error) {
	totals, err := s.accountingRepo.Totals(filter)
	if err != nil {
		return nil, err
	}
	return &AccountingSummary{
		Income:  totals.Income,
		Expense: totals.Expense,
		Balance: totals.Income.Sub(totals.Expense),
	}, nil
}

func (s *accountingService) DailySummary(days int) ([]DailySummary, error) {
	if days <= 0 {
		days = 7
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := today.AddDate(0, 0, -(days - 1))

	movements, err := s.accountingRepo.FindAll(repository.AccountingFilter{From: &from})
	if err != nil {
		return nil, err
	}

	result := make([]DailySummary, days)
	index := make(map[string]int, days)
	for i := range result {
		date := from.AddDate(0, 0, i).Format("2006-01-02")
		result[i] = DailySummary{Date: date, Income: decimal.Zero, Expense: decimal.Zero}
		index[date] = i
	}
	for _, m := range movements {
		i, ok := index[m.CreatedAt.In(now.Location()).Format("2006-01-02")]
		if !ok {
			continue
		}
		switch m.Type {
		case model.MovementIncome:
			result[i].Income = result[i].Income.Add(m.Amount)
		case model.MovementExpense:
			result[i].Expense = result[i].Expense.Add(m.Amount)
		}
	}
	return result, nil
}
