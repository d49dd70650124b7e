package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateService_CreateTemplate_Camiseta(t *testing.T) {
	env := setupTestEnv(t)
	values := env.seedAttributes(t)
	user := env.createUser(t, "vendedor")

	result, err := env.templates.CreateTemplate(context.Background(), CreateTemplateInput{
		Name: "Camiseta",
		Variants: []VariantInput{
			{
				SKU:               "CAM-S-RO",
				SalePrice:         decimal.NewFromInt(199),
				Stock:             20,
				AttributeValueIDs: []uint{values["Talla:S"], values["Color:Rojo"]},
			},
			{
				SKU:               "CAM-M-AZ",
				SalePrice:         decimal.NewFromInt(199),
				Stock:             15,
				AttributeValueIDs: []uint{values["Talla:M"], values["Color:Azul"]},
			},
		},
	}, &user.ID)
	require.NoError(t, err)

	tmpl := result.Template
	assert.Equal(t, model.TemplateKindVariant, tmpl.Kind)
	assert.True(t, tmpl.Active)
	assert.Equal(t, 35, tmpl.TotalStock)
	require.Len(t, tmpl.Variants, 2)

	for _, v := range tmpl.Variants {
		assert.Len(t, v.Values, 2)
		movements, err := env.stock.Movements(v.ID)
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, model.AdjustManualIn, movements[0].Kind)
		assert.Equal(t, v.Stock, movements[0].Delta)
		assert.Equal(t, 0, movements[0].StockBefore)
		assert.Equal(t, v.Stock, movements[0].StockAfter)
		assert.Equal(t, initialStockReason, movements[0].Reason)
		require.NotNil(t, movements[0].UserID)
		assert.Equal(t, user.ID, *movements[0].UserID)
	}
	assert.Equal(t, 2, env.publisher.count())
}

func TestTemplateService_CreateTemplate_Validation(t *testing.T) {
	env := setupTestEnv(t)
	values := env.seedAttributes(t)
	existing := env.createSimple(t, "Termo", "TERMO-01", 0, "150")

	tests := []struct {
		name    string
		input   CreateTemplateInput
		wantErr error
	}{
		{
			name: "Duplicate template name ignores case",
			input: CreateTemplateInput{
				Name:     "termo",
				Variants: []VariantInput{{SKU: "TERMO-02"}},
			},
			wantErr: ErrDuplicateTemplateName,
		},
		{
			name: "SKU used by another template",
			input: CreateTemplateInput{
				Name:     "Botella",
				Variants: []VariantInput{{SKU: "termo-01"}},
			},
			wantErr: ErrDuplicateSKU,
		},
		{
			name: "SKU repeated in the request",
			input: CreateTemplateInput{
				Name:     "Botella",
				Variants: []VariantInput{{SKU: "BOT-1"}, {SKU: "BOT-1"}},
			},
			wantErr: ErrDuplicateSKU,
		},
		{
			name: "Missing SKU",
			input: CreateTemplateInput{
				Name:     "Botella",
				Variants: []VariantInput{{SKU: "  "}},
			},
			wantErr: ErrSKURequired,
		},
		{
			name: "Unknown attribute value",
			input: CreateTemplateInput{
				Name:     "Botella",
				Variants: []VariantInput{{SKU: "BOT-1", AttributeValueIDs: []uint{9999}}},
			},
			wantErr: ErrAttributeValueNotFound,
		},
		{
			name: "Two values of one attribute",
			input: CreateTemplateInput{
				Name: "Botella",
				Variants: []VariantInput{{
					SKU:               "BOT-1",
					AttributeValueIDs: []uint{values["Color:Rojo"], values["Color:Azul"]},
				}},
			},
			wantErr: ErrValidation,
		},
		{
			name: "Simple with attributes",
			input: CreateTemplateInput{
				Name: "Botella",
				Kind: model.TemplateKindSimple,
				Variants: []VariantInput{{
					SKU:               "BOT-1",
					AttributeValueIDs: []uint{values["Color:Rojo"]},
				}},
			},
			wantErr: ErrInvalidTemplateShape,
		},
		{
			name: "Kit without components",
			input: CreateTemplateInput{
				Name:     "Paquete",
				Kind:     model.TemplateKindKit,
				Variants: []VariantInput{{SKU: "PAQ-1"}},
			},
			wantErr: ErrInvalidTemplateShape,
		},
		{
			name: "Kit with zero quantity component",
			input: CreateTemplateInput{
				Name:       "Paquete",
				Variants:   []VariantInput{{SKU: "PAQ-1"}},
				Components: []ComponentInput{{VariantID: existing.Variants[0].ID, Quantity: 0}},
			},
			wantErr: ErrInvalidKitComponent,
		},
		{
			name: "Negative price",
			input: CreateTemplateInput{
				Name:     "Botella",
				Variants: []VariantInput{{SKU: "BOT-1", SalePrice: decimal.NewFromInt(-1)}},
			},
			wantErr: ErrInvalidPrice,
		},
		{
			name: "Unknown category",
			input: CreateTemplateInput{
				Name:       "Botella",
				CategoryID: uintPtr(4242),
				Variants:   []VariantInput{{SKU: "BOT-1"}},
			},
			wantErr: ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := env.templates.CreateTemplate(context.Background(), tt.input, nil)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
		})
	}

	templates, err := env.templates.ListTemplates(TemplateFilter{})
	require.NoError(t, err)
	assert.Len(t, templates, 1)
}

func TestTemplateService_CreateTemplate_RollsBackOnFailure(t *testing.T) {
	env := setupTestEnv(t)
	env.createSimple(t, "Vaso", "VASO-01", 0, "30")

	_, err := env.templates.CreateTemplate(context.Background(), CreateTemplateInput{
		Name:     "Jarra",
		Variants: []VariantInput{{SKU: "JARRA-01", Stock: 5}, {SKU: "VASO-01"}},
	}, nil)
	require.ErrorIs(t, err, ErrDuplicateSKU)

	_, err = env.productRepo.FindVariantBySKU("JARRA-01", 0)
	assert.Error(t, err)
	_, err = env.productRepo.FindTemplateByName("Jarra", 0)
	assert.Error(t, err)
}

func TestTemplateService_UpdateTemplate(t *testing.T) {
	env := setupTestEnv(t)
	values := env.seedAttributes(t)
	ctx := context.Background()

	created, err := env.templates.CreateTemplate(ctx, CreateTemplateInput{
		Name: "Sudadera",
		Variants: []VariantInput{
			{SKU: "SUD-S", Stock: 3, AttributeValueIDs: []uint{values["Talla:S"]}},
			{SKU: "SUD-M", Stock: 0, AttributeValueIDs: []uint{values["Talla:M"]}},
		},
	}, nil)
	require.NoError(t, err)
	small, medium := created.Template.Variants[0], created.Template.Variants[1]

	t.Run("Removing a variant with stock fails", func(t *testing.T) {
		_, err := env.templates.UpdateTemplate(ctx, created.Template.ID, UpdateTemplateInput{
			CreateTemplateInput: CreateTemplateInput{
				Name:     "Sudadera",
				Variants: []VariantInput{{ID: &medium.ID, SKU: "SUD-M", AttributeValueIDs: []uint{values["Talla:M"]}}},
			},
		}, nil)
		assert.ErrorIs(t, err, ErrVariantHasStock)
		assert.Equal(t, 3, env.variantStock(t, small.ID))
	})

	t.Run("Reconciles by id", func(t *testing.T) {
		result, err := env.templates.UpdateTemplate(ctx, created.Template.ID, UpdateTemplateInput{
			CreateTemplateInput: CreateTemplateInput{
				Name: "Sudadera Clásica",
				Variants: []VariantInput{
					{ID: &small.ID, SKU: "SUD-S", SalePrice: decimal.NewFromInt(350), AttributeValueIDs: []uint{values["Talla:S"], values["Color:Negro"]}},
					{SKU: "SUD-L", Stock: 4, AttributeValueIDs: []uint{values["Talla:L"]}},
				},
			},
		}, nil)
		require.NoError(t, err)

		tmpl := result.Template
		assert.Equal(t, "Sudadera Clásica", tmpl.Name)
		require.Len(t, tmpl.Variants, 2)
		assert.Equal(t, "SUD-S", tmpl.Variants[0].SKU)
		assert.True(t, decimal.NewFromInt(350).Equal(tmpl.Variants[0].SalePrice))
		assert.Len(t, tmpl.Variants[0].Values, 2)
		assert.Equal(t, 3, tmpl.Variants[0].Stock)
		assert.Equal(t, "SUD-L", tmpl.Variants[1].SKU)
		assert.Equal(t, 7, tmpl.TotalStock)

		_, err = env.productRepo.FindVariantByID(medium.ID)
		assert.Error(t, err)
	})

	t.Run("Kind cannot change to kit", func(t *testing.T) {
		_, err := env.templates.UpdateTemplate(ctx, created.Template.ID, UpdateTemplateInput{
			CreateTemplateInput: CreateTemplateInput{
				Name:     "Sudadera Clásica",
				Kind:     model.TemplateKindKit,
				Variants: []VariantInput{{ID: &small.ID, SKU: "SUD-S"}},
			},
		}, nil)
		assert.ErrorIs(t, err, ErrKindChange)
	})

	t.Run("Unknown template", func(t *testing.T) {
		_, err := env.templates.UpdateTemplate(ctx, 9999, UpdateTemplateInput{}, nil)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})
}

func TestTemplateService_UpdateTemplate_PromotesSimple(t *testing.T) {
	env := setupTestEnv(t)
	values := env.seedAttributes(t)
	simple := env.createSimple(t, "Gorra", "GORRA", 2, "120")
	id := simple.Variants[0].ID

	result, err := env.templates.UpdateTemplate(context.Background(), simple.ID, UpdateTemplateInput{
		CreateTemplateInput: CreateTemplateInput{
			Name: "Gorra",
			Variants: []VariantInput{
				{ID: &id, SKU: "GORRA", AttributeValueIDs: []uint{values["Color:Rojo"]}},
				{SKU: "GORRA-AZ", AttributeValueIDs: []uint{values["Color:Azul"]}},
			},
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.TemplateKindVariant, result.Template.Kind)
	assert.Len(t, result.Template.Variants, 2)
}

func TestTemplateService_DeleteTemplate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	t.Run("Stock blocks deletion", func(t *testing.T) {
		tmpl := env.createSimple(t, "Mochila", "MOCH-01", 2, "500")

		result, err := env.templates.DeleteTemplate(ctx, tmpl.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTemplateHasStock)
		assert.Contains(t, err.Error(), "existencias en el inventario")
		assert.Nil(t, result)

		_, err = env.templates.GetTemplate(tmpl.ID)
		assert.NoError(t, err)
	})

	t.Run("Derived kit stock blocks deletion", func(t *testing.T) {
		part := env.createSimple(t, "Pieza", "PIEZA-01", 4, "10")
		kit := env.createKit(t, "Kit Piezas", "KIT-PZ", ComponentInput{VariantID: part.Variants[0].ID, Quantity: 2})
		require.Equal(t, 2, kit.TotalStock)

		_, err := env.templates.DeleteTemplate(ctx, kit.ID)
		assert.ErrorIs(t, err, ErrTemplateHasStock)
	})

	t.Run("Component of a kit cannot be deleted", func(t *testing.T) {
		part := env.createSimple(t, "Tornillo", "TORN-01", 0, "1")
		env.createKit(t, "Kit Tornillos", "KIT-TORN", ComponentInput{VariantID: part.Variants[0].ID, Quantity: 10})

		_, err := env.templates.DeleteTemplate(ctx, part.ID)
		assert.ErrorIs(t, err, ErrVariantInUseByKit)
	})

	t.Run("Zero stock cascades", func(t *testing.T) {
		source := filepath.Join(t.TempDir(), "foto.png")
		require.NoError(t, os.WriteFile(source, []byte("png"), 0o644))

		part := env.createSimple(t, "Tuerca", "TUER-01", 0, "1")
		result, err := env.templates.CreateTemplate(ctx, CreateTemplateInput{
			Name:        "Kit Tuercas",
			Variants:    []VariantInput{{SKU: "KIT-TUER"}},
			Components:  []ComponentInput{{VariantID: part.Variants[0].ID, Quantity: 3}},
			ImagesToAdd: []string{source},
		}, nil)
		require.NoError(t, err)
		require.Empty(t, result.Warnings)
		kit := result.Template
		require.Len(t, kit.Images, 1)
		storedPath := kit.Images[0].Path
		assert.FileExists(t, storedPath)

		deleted, err := env.templates.DeleteTemplate(ctx, kit.ID)
		require.NoError(t, err)
		assert.True(t, deleted.Deleted)
		assert.Empty(t, deleted.ImageCleanupErrors)
		assert.NoFileExists(t, storedPath)

		_, err = env.templates.GetTemplate(kit.ID)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
		_, err = env.productRepo.FindVariantBySKU("KIT-TUER", 0)
		assert.Error(t, err)
		components, err := env.productRepo.FindComponents(kit.ID)
		require.NoError(t, err)
		assert.Empty(t, components)
		images, err := env.productRepo.FindImages(kit.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, images)

		// the component itself is free again
		_, err = env.templates.DeleteTemplate(ctx, part.ID)
		assert.NoError(t, err)
	})

	t.Run("Missing template is a no-op", func(t *testing.T) {
		result, err := env.templates.DeleteTemplate(ctx, 9999)
		require.NoError(t, err)
		assert.False(t, result.Deleted)
	})
}

func TestTemplateService_ListTemplates(t *testing.T) {
	env := setupTestEnv(t)
	categories := NewCategoryService(env.categoryRepo)

	ropa, err := categories.CreateCategory("Ropa", nil)
	require.NoError(t, err)
	playeras, err := categories.CreateCategory("Playeras", &ropa.ID)
	require.NoError(t, err)

	_, err = env.templates.CreateTemplate(context.Background(), CreateTemplateInput{
		Name:       "Playera Polo",
		CategoryID: &playeras.ID,
		Variants:   []VariantInput{{SKU: "POLO-01", Stock: 1}},
	}, nil)
	require.NoError(t, err)
	env.createSimple(t, "Llavero", "LLAV-01", 0, "15")

	tests := []struct {
		name   string
		filter TemplateFilter
		want   []string
	}{
		{name: "All", filter: TemplateFilter{}, want: []string{"Llavero", "Playera Polo"}},
		{name: "By name", filter: TemplateFilter{Search: "polo"}, want: []string{"Playera Polo"}},
		{name: "By SKU", filter: TemplateFilter{Search: "LLAV"}, want: []string{"Llavero"}},
		{name: "Parent category includes descendants", filter: TemplateFilter{CategoryID: &ropa.ID}, want: []string{"Playera Polo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := env.templates.ListTemplates(tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(views))
			for _, v := range views {
				names = append(names, v.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestTemplateService_GetVariant_KitAvailability(t *testing.T) {
	env := setupTestEnv(t)
	part := env.createSimple(t, "Vela", "VELA-01", 7, "20")
	kit := env.createKit(t, "Kit Velas", "KIT-VELA", ComponentInput{VariantID: part.Variants[0].ID, Quantity: 3})

	view, err := env.templates.GetVariant(kit.Variants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Available)
	assert.Equal(t, 0, view.Stock)

	_, err = env.templates.GetVariant(9999)
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func uintPtr(v uint) *uint {
	return &v
}
