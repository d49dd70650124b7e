package repository

import (
	"testing"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockMovementRepository_SetStock(t *testing.T) {
	testDB, products := setupProductTest(t)
	defer db.CleanupTestDB(testDB)
	repo := NewStockMovementRepository(testDB)

	tpl := createTemplate(t, products, "Taza", model.TemplateKindSimple, "TAZA-01")
	variantID := tpl.Variants[0].ID

	ok, err := repo.SetStock(variantID, 0, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	// Stale expectation does not match any row
	ok, err = repo.SetStock(variantID, 0, 9)
	require.NoError(t, err)
	assert.False(t, ok)

	variant, err := products.FindVariantByID(variantID)
	require.NoError(t, err)
	assert.Equal(t, 5, variant.Stock)
}

func TestStockMovementRepository_FindByVariant(t *testing.T) {
	testDB, products := setupProductTest(t)
	defer db.CleanupTestDB(testDB)
	repo := NewStockMovementRepository(testDB)

	tpl := createTemplate(t, products, "Taza", model.TemplateKindSimple, "TAZA-01")
	variantID := tpl.Variants[0].ID

	movements := []model.StockMovement{
		{VariantID: variantID, Kind: model.AdjustManualIn, Delta: 10, StockBefore: 0, StockAfter: 10},
		{VariantID: variantID, Kind: model.AdjustBreakageOut, Delta: -3, StockBefore: 10, StockAfter: 7},
	}
	for i := range movements {
		require.NoError(t, repo.Create(&movements[i]))
	}

	found, err := repo.FindByVariant(variantID)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 10, found[0].Delta)
	assert.Equal(t, 7, found[1].StockAfter)

	recent, err := repo.FindRecent(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, model.AdjustBreakageOut, recent[0].Kind)
}
