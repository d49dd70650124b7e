package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseService_ReceiveOrder(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "compras")
	supplier := &model.Supplier{CompanyName: "Papelera Central"}
	require.NoError(t, env.supplierRepo.Create(supplier))
	tmpl := env.createSimple(t, "Carpeta", "CARP-01", 0, "35")
	variantID := tmpl.Variants[0].ID

	order, err := env.purchases.CreateOrder(supplier.ID, []PurchaseLineInput{
		{VariantID: variantID, Quantity: 5, UnitCost: decimal.RequireFromString("12.50")},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseOrderPending, order.Status)
	assert.True(t, decimal.RequireFromString("62.50").Equal(order.Total))

	received, err := env.purchases.ReceiveOrder(order.ID, &user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseOrderReceived, received.Status)
	assert.NotNil(t, received.ReceivedAt)
	assert.Equal(t, 5, env.variantStock(t, variantID))

	movements, err := env.stock.Movements(variantID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, model.AdjustPurchaseIn, movements[0].Kind)
	assert.Equal(t, 5, movements[0].Delta)
	assert.Contains(t, movements[0].Reason, "Orden de Compra")

	expenses, err := env.accountingRepo.FindAll(repository.AccountingFilter{Type: model.MovementExpense})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.True(t, order.Total.Equal(expenses[0].Amount))
	assert.Equal(t, "Compras", expenses[0].Category)

	_, err = env.purchases.ReceiveOrder(order.ID, &user.ID)
	assert.ErrorIs(t, err, ErrOrderNotPending)
	assert.Equal(t, 5, env.variantStock(t, variantID))

	expenses, err = env.accountingRepo.FindAll(repository.AccountingFilter{Type: model.MovementExpense})
	require.NoError(t, err)
	assert.Len(t, expenses, 1)
}

func TestPurchaseService_CreateOrder_Validation(t *testing.T) {
	env := setupTestEnv(t)
	supplier := &model.Supplier{CompanyName: "Ferretería López"}
	require.NoError(t, env.supplierRepo.Create(supplier))
	tmpl := env.createSimple(t, "Tornillo", "TOR-01", 0, "1")
	kit := env.createKit(t, "Juego de Tornillos", "TOR-KIT",
		ComponentInput{VariantID: tmpl.Variants[0].ID, Quantity: 10})

	tests := []struct {
		name       string
		supplierID uint
		lines      []PurchaseLineInput
		wantErr    error
	}{
		{
			name:       "Unknown supplier",
			supplierID: 999,
			lines:      []PurchaseLineInput{{VariantID: tmpl.Variants[0].ID, Quantity: 1}},
			wantErr:    ErrSupplierNotFound,
		},
		{name: "No lines", supplierID: supplier.ID, wantErr: ErrEmptyOrder},
		{
			name:       "Zero quantity",
			supplierID: supplier.ID,
			lines:      []PurchaseLineInput{{VariantID: tmpl.Variants[0].ID, Quantity: 0}},
			wantErr:    ErrInvalidQuantity,
		},
		{
			name:       "Negative cost",
			supplierID: supplier.ID,
			lines:      []PurchaseLineInput{{VariantID: tmpl.Variants[0].ID, Quantity: 1, UnitCost: decimal.NewFromInt(-1)}},
			wantErr:    ErrInvalidPrice,
		},
		{
			name:       "Unknown variant",
			supplierID: supplier.ID,
			lines:      []PurchaseLineInput{{VariantID: 999, Quantity: 1}},
			wantErr:    ErrVariantNotFound,
		},
		{
			name:       "Kit variant",
			supplierID: supplier.ID,
			lines:      []PurchaseLineInput{{VariantID: kit.Variants[0].ID, Quantity: 1}},
			wantErr:    ErrKitStockIsDerived,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.purchases.CreateOrder(tt.supplierID, tt.lines)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	orders, err := env.purchases.ListOrders("")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPurchaseService_CancelOrder(t *testing.T) {
	env := setupTestEnv(t)
	supplier := &model.Supplier{CompanyName: "Distribuidora Sur"}
	require.NoError(t, env.supplierRepo.Create(supplier))
	tmpl := env.createSimple(t, "Clip", "CLIP-01", 0, "1")

	order, err := env.purchases.CreateOrder(supplier.ID, []PurchaseLineInput{
		{VariantID: tmpl.Variants[0].ID, Quantity: 100, UnitCost: decimal.RequireFromString("0.10")},
	})
	require.NoError(t, err)

	cancelled, err := env.purchases.CancelOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseOrderCancelled, cancelled.Status)

	_, err = env.purchases.ReceiveOrder(order.ID, nil)
	assert.ErrorIs(t, err, ErrOrderNotPending)
	assert.Equal(t, 0, env.variantStock(t, tmpl.Variants[0].ID))

	_, err = env.purchases.CancelOrder(order.ID)
	assert.ErrorIs(t, err, ErrOrderNotPending)

	_, err = env.purchases.GetOrder(999)
	assert.ErrorIs(t, err, ErrPurchaseOrderNotFound)
}
