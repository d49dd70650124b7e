package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewProductRepository(testDB)
	return testDB, repo
}

func createTemplate(t *testing.T, repo ProductRepository, name string, kind model.TemplateKind, skus ...string) *model.ProductTemplate {
	t.Helper()

	template := &model.ProductTemplate{Name: name, Kind: kind, Active: true}
	require.NoError(t, repo.CreateTemplate(template))
	for _, sku := range skus {
		variant := &model.Variant{
			TemplateID: template.ID,
			SKU:        sku,
			SalePrice:  decimal.NewFromInt(100),
		}
		require.NoError(t, repo.CreateVariant(variant))
	}
	found, err := repo.FindTemplateByID(template.ID)
	require.NoError(t, err)
	return found
}

func TestProductRepository_CreateTemplate(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name     string
		template *model.ProductTemplate
		wantErr  bool
	}{
		{
			name:     "Valid template",
			template: &model.ProductTemplate{Name: "Camiseta", Kind: model.TemplateKindVariant, Active: true},
			wantErr:  false,
		},
		{
			name:     "Duplicate name",
			template: &model.ProductTemplate{Name: "Camiseta", Kind: model.TemplateKindSimple, Active: true},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.CreateTemplate(tt.template)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.template.ID)
			}
		})
	}
}

func TestProductRepository_FindTemplateByID(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	created := createTemplate(t, repo, "Camiseta", model.TemplateKindVariant, "CAM-R-M", "CAM-A-M")

	found, err := repo.FindTemplateByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Camiseta", found.Name)
	require.Len(t, found.Variants, 2)
	assert.Equal(t, "CAM-R-M", found.Variants[0].SKU)

	_, err = repo.FindTemplateByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_FindTemplateByName(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	created := createTemplate(t, repo, "Taza Blanca", model.TemplateKindSimple, "TAZA-01")

	found, err := repo.FindTemplateByName("  taza blanca ", 0)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindTemplateByName("Taza Blanca", created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_FindTemplates(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	ropa := &model.Category{Name: "Ropa"}
	require.NoError(t, testDB.Create(ropa).Error)

	camiseta := createTemplate(t, repo, "Camiseta", model.TemplateKindVariant, "CAM-R-M")
	camiseta.CategoryID = &ropa.ID
	require.NoError(t, repo.UpdateTemplate(camiseta))
	createTemplate(t, repo, "Taza", model.TemplateKindSimple, "TAZA-01")

	tests := []struct {
		name   string
		filter TemplateFilter
		want   []string
	}{
		{name: "No filter", filter: TemplateFilter{}, want: []string{"Camiseta", "Taza"}},
		{name: "By name", filter: TemplateFilter{Search: "taz"}, want: []string{"Taza"}},
		{name: "By SKU", filter: TemplateFilter{Search: "cam-r"}, want: []string{"Camiseta"}},
		{name: "By category", filter: TemplateFilter{CategoryIDs: []uint{ropa.ID}}, want: []string{"Camiseta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindTemplates(tt.filter)
			require.NoError(t, err)

			names := make([]string, 0, len(found))
			for _, tpl := range found {
				names = append(names, tpl.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestProductRepository_FindVariantBySKU(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	tpl := createTemplate(t, repo, "Camiseta", model.TemplateKindVariant, "CAM-R-M")

	found, err := repo.FindVariantBySKU("cam-r-m", 0)
	require.NoError(t, err)
	assert.Equal(t, tpl.Variants[0].ID, found.ID)

	_, err = repo.FindVariantBySKU("CAM-R-M", tpl.Variants[0].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_VariantValues(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	color := &model.Attribute{Name: "Color"}
	require.NoError(t, testDB.Create(color).Error)
	rojo := &model.AttributeValue{AttributeID: color.ID, Value: "Rojo"}
	azul := &model.AttributeValue{AttributeID: color.ID, Value: "Azul"}
	require.NoError(t, testDB.Create(rojo).Error)
	require.NoError(t, testDB.Create(azul).Error)

	tpl := createTemplate(t, repo, "Camiseta", model.TemplateKindVariant, "CAM-01")
	variantID := tpl.Variants[0].ID

	require.NoError(t, repo.AddVariantValues(variantID, []uint{rojo.ID}))
	variant, err := repo.FindVariantByID(variantID)
	require.NoError(t, err)
	require.Len(t, variant.Values, 1)
	assert.Equal(t, "Rojo", variant.Values[0].Value)
	assert.Equal(t, "Camiseta (Rojo)", variant.DisplayName())

	require.NoError(t, repo.ReplaceVariantValues(variantID, []uint{azul.ID}))
	variant, err = repo.FindVariantByID(variantID)
	require.NoError(t, err)
	require.Len(t, variant.Values, 1)
	assert.Equal(t, "Azul", variant.Values[0].Value)
}

func TestProductRepository_Components(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	lapiz := createTemplate(t, repo, "Lápiz", model.TemplateKindSimple, "LAP-01")
	goma := createTemplate(t, repo, "Goma", model.TemplateKindSimple, "GOM-01")
	kit := createTemplate(t, repo, "Kit Escolar", model.TemplateKindKit, "KIT-01")

	err := repo.ReplaceComponents(kit.ID, []model.KitComponent{
		{ComponentID: lapiz.Variants[0].ID, Quantity: 2},
		{ComponentID: goma.Variants[0].ID, Quantity: 1},
	})
	require.NoError(t, err)

	components, err := repo.FindComponents(kit.ID)
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, 2, components[0].Quantity)
	require.NotNil(t, components[0].Component)
	assert.Equal(t, "LAP-01", components[0].Component.SKU)

	count, err := repo.CountKitsUsing([]uint{lapiz.Variants[0].ID}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountKitsUsing([]uint{lapiz.Variants[0].ID}, kit.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestProductRepository_DeleteTemplate(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	tpl := createTemplate(t, repo, "Camiseta", model.TemplateKindVariant, "CAM-01", "CAM-02")
	require.NoError(t, repo.AddImage(&model.ProductImage{TemplateID: tpl.ID, Path: "a.jpg"}))
	require.NoError(t, testDB.Create(&model.StockMovement{
		VariantID: tpl.Variants[0].ID, Kind: model.AdjustManualIn, Delta: 0,
	}).Error)

	require.NoError(t, repo.DeleteTemplate(tpl.ID))

	_, err := repo.FindTemplateByID(tpl.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var variants, movements, images int64
	testDB.Model(&model.Variant{}).Count(&variants)
	testDB.Model(&model.StockMovement{}).Count(&movements)
	testDB.Model(&model.ProductImage{}).Count(&images)
	assert.Zero(t, variants)
	assert.Zero(t, movements)
	assert.Zero(t, images)
}
