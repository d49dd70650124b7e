package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_CreateCustomer(t *testing.T) {
	env := setupTestEnv(t)
	customers := NewCustomerService(env.customerRepo)

	created, err := customers.CreateCustomer(CustomerInput{
		FullName:    "María Fernanda Ruiz",
		RFC:         " rufm851010ab1 ",
		Email:       "MFRUIZ@correo.mx",
		CreditLimit: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	require.NotNil(t, created.RFC)
	assert.Equal(t, "RUFM851010AB1", *created.RFC)
	assert.Equal(t, "mfruiz@correo.mx", *created.Email)
	assert.Equal(t, model.CustomerActive, created.Status)

	tests := []struct {
		name    string
		input   CustomerInput
		wantErr error
	}{
		{name: "Short name", input: CustomerInput{FullName: "Al"}, wantErr: ErrNameTooShort},
		{name: "Invalid RFC", input: CustomerInput{FullName: "José Pérez", RFC: "XYZ"}, wantErr: ErrInvalidRFC},
		{name: "Duplicate RFC", input: CustomerInput{FullName: "José Pérez", RFC: "RUFM851010AB1"}, wantErr: ErrDuplicateCustomerRFC},
		{name: "Duplicate email", input: CustomerInput{FullName: "José Pérez", Email: "mfruiz@correo.mx"}, wantErr: ErrDuplicateCustomerEmail},
		{name: "Unknown status", input: CustomerInput{FullName: "José Pérez", Status: "vip"}, wantErr: ErrInvalidStatus},
		{name: "Negative credit", input: CustomerInput{FullName: "José Pérez", CreditLimit: decimal.NewFromInt(-1)}, wantErr: ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := customers.CreateCustomer(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	found, err := customers.ListCustomers("rufm")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestCustomerService_DeleteCustomerWithSales(t *testing.T) {
	env := setupTestEnv(t)
	customers := NewCustomerService(env.customerRepo)
	cashier := env.createUser(t, "cajero-clientes")
	item := env.createSimple(t, "Agenda", "AGE-01", 3, "80")

	buyer, err := customers.CreateCustomer(CustomerInput{FullName: "Carlos Núñez"})
	require.NoError(t, err)
	other, err := customers.CreateCustomer(CustomerInput{FullName: "Ana Torres"})
	require.NoError(t, err)

	sale, err := env.sales.StartSale(cashier.ID, &buyer.ID)
	require.NoError(t, err)
	_, err = env.sales.AddItem(sale.ID, item.Variants[0].ID, 1)
	require.NoError(t, err)
	_, err = env.sales.FinalizeSale(sale.ID, []PaymentInput{{Method: model.PaymentCash, Amount: decimal.NewFromInt(80)}})
	require.NoError(t, err)

	history, err := customers.CustomerSales(buyer.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.SaleCompleted, history[0].Status)

	assert.ErrorIs(t, customers.DeleteCustomer(buyer.ID), ErrCustomerHasSales)
	require.NoError(t, customers.DeleteCustomer(other.ID))
	assert.ErrorIs(t, customers.DeleteCustomer(other.ID), ErrCustomerNotFound)
}
