package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountingService_AddMovement(t *testing.T) {
	env := setupTestEnv(t)
	accounting := NewAccountingService(env.accountingRepo)

	movement, err := accounting.AddMovement(AccountingInput{
		Type:     model.MovementExpense,
		Concept:  "  Pago de   luz ",
		Amount:   decimal.RequireFromString("850.456"),
		Category: "Servicios",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pago de luz", movement.Concept)
	assert.True(t, decimal.RequireFromString("850.46").Equal(movement.Amount))

	tests := []struct {
		name    string
		input   AccountingInput
		wantErr error
	}{
		{name: "Unknown type", input: AccountingInput{Type: "otro", Concept: "Renta", Amount: decimal.NewFromInt(1)}, wantErr: ErrInvalidStatus},
		{name: "Short concept", input: AccountingInput{Type: model.MovementIncome, Concept: "ab", Amount: decimal.NewFromInt(1)}, wantErr: ErrConceptTooShort},
		{name: "Zero amount", input: AccountingInput{Type: model.MovementIncome, Concept: "Renta", Amount: decimal.Zero}, wantErr: ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accounting.AddMovement(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = accounting.AddMovement(AccountingInput{Type: model.MovementIncome, Concept: "Venta de mostrador", Amount: decimal.NewFromInt(1200)})
	require.NoError(t, err)

	summary, err := accounting.Summary(repository.AccountingFilter{})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1200).Equal(summary.Income))
	assert.True(t, decimal.RequireFromString("850.46").Equal(summary.Expense))
	assert.True(t, decimal.RequireFromString("349.54").Equal(summary.Balance))
}

func TestAccountingService_DailySummary(t *testing.T) {
	env := setupTestEnv(t)
	today := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	accounting := &accountingService{
		accountingRepo: env.accountingRepo,
		now:            func() time.Time { return today },
	}

	record := func(kind model.MovementType, amount int64, at time.Time) {
		require.NoError(t, env.accountingRepo.Create(&model.AccountingMovement{
			Type:      kind,
			Concept:   "Movimiento",
			Amount:    decimal.NewFromInt(amount),
			CreatedAt: at,
		}))
	}
	record(model.MovementIncome, 100, today.Add(-2*time.Hour))
	record(model.MovementIncome, 50, today.Add(-1*time.Hour))
	record(model.MovementExpense, 30, today.AddDate(0, 0, -2))
	record(model.MovementIncome, 999, today.AddDate(0, 0, -10))

	days, err := accounting.DailySummary(0)
	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, "2026-05-14", days[0].Date)
	assert.Equal(t, "2026-05-20", days[6].Date)

	assert.True(t, decimal.NewFromInt(150).Equal(days[6].Income))
	assert.True(t, days[6].Expense.IsZero())
	assert.True(t, decimal.NewFromInt(30).Equal(days[4].Expense))
	for _, d := range days[:4] {
		assert.True(t, d.Income.IsZero(), d.Date)
		assert.True(t, d.Expense.IsZero(), d.Date)
	}

	three, err := accounting.DailySummary(3)
	require.NoError(t, err)
	assert.Len(t, three, 3)
	assert.Equal(t, "2026-05-18", three[0].Date)
}
