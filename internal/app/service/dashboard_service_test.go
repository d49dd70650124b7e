package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_KPIs(t *testing.T) {
	env := setupTestEnv(t)
	dashboard := NewDashboardService(env.accountingRepo, env.saleRepo, env.productRepo, env.movementRepo)

	empty, err := dashboard.KPIs()
	require.NoError(t, err)
	assert.True(t, empty.TotalIncome.IsZero())
	assert.Zero(t, empty.CompletedSales)
	assert.Zero(t, empty.UnitsInStock)
	assert.Empty(t, empty.RecentMovements)

	cashier := env.createUser(t, "cajero-panel")
	mug := env.createSimple(t, "Termo", "TER-01", 12, "150")
	env.createSimple(t, "Tapa", "TAP-01", 8, "20")
	env.createKit(t, "Termo con Tapa", "TER-KIT", ComponentInput{VariantID: mug.Variants[0].ID, Quantity: 1})

	sale, err := env.sales.StartSale(cashier.ID, nil)
	require.NoError(t, err)
	_, err = env.sales.AddItem(sale.ID, mug.Variants[0].ID, 2)
	require.NoError(t, err)
	_, err = env.sales.FinalizeSale(sale.ID, []PaymentInput{{Method: model.PaymentCash, Amount: decimal.NewFromInt(300)}})
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		_, err := env.stock.AdjustStock(context.Background(), AdjustStockInput{
			VariantID: mug.Variants[0].ID,
			Delta:     1,
			Kind:      model.AdjustManualIn,
		})
		require.NoError(t, err)
	}

	kpis, err := dashboard.KPIs()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(kpis.TotalIncome))
	assert.Equal(t, int64(1), kpis.CompletedSales)
	assert.Equal(t, 30, kpis.UnitsInStock)
	assert.Len(t, kpis.RecentMovements, 10)
}
