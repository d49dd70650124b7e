package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeService_Values(t *testing.T) {
	env := setupTestEnv(t)
	attributes := NewAttributeService(env.attributeRepo)

	color, err := attributes.CreateAttribute(" Color ")
	require.NoError(t, err)
	assert.Equal(t, "Color", color.Name)
	_, err = attributes.CreateAttribute("color")
	assert.ErrorIs(t, err, ErrDuplicateAttributeName)

	code := "#ff0000"
	red, err := attributes.AddValue(color.ID, "Rojo", &code)
	require.NoError(t, err)
	require.NotNil(t, red.ColorCode)
	assert.Equal(t, "#FF0000", *red.ColorCode)

	bad := "rojo"
	_, err = attributes.AddValue(color.ID, "Carmesí", &bad)
	assert.ErrorIs(t, err, ErrInvalidColorCode)
	_, err = attributes.AddValue(color.ID, "rojo", nil)
	assert.ErrorIs(t, err, ErrDuplicateAttributeValue)
	_, err = attributes.AddValue(999, "Azul", nil)
	assert.ErrorIs(t, err, ErrAttributeNotFound)

	blank := " "
	updated, err := attributes.UpdateValue(red.ID, "Rojo Vivo", &blank)
	require.NoError(t, err)
	assert.Equal(t, "Rojo Vivo", updated.Value)
	assert.Nil(t, updated.ColorCode)

	renamed, err := attributes.RenameAttribute(color.ID, "Tono")
	require.NoError(t, err)
	assert.Equal(t, "Tono", renamed.Name)
}

func TestAttributeService_DeleteInUse(t *testing.T) {
	env := setupTestEnv(t)
	attributes := NewAttributeService(env.attributeRepo)
	values := env.seedAttributes(t)

	_, err := env.templates.CreateTemplate(context.Background(), CreateTemplateInput{
		Name: "Sudadera",
		Variants: []VariantInput{
			{SKU: "SUD-RO", SalePrice: decimal.NewFromInt(350), AttributeValueIDs: []uint{values["Color:Rojo"]}},
			{SKU: "SUD-AZ", SalePrice: decimal.NewFromInt(350), AttributeValueIDs: []uint{values["Color:Azul"]}},
		},
	}, nil)
	require.NoError(t, err)

	list, err := attributes.ListAttributes()
	require.NoError(t, err)
	var colorID, sizeID uint
	for _, a := range list {
		switch a.Name {
		case "Color":
			colorID = a.ID
		case "Talla":
			sizeID = a.ID
		}
	}

	assert.ErrorIs(t, attributes.DeleteAttribute(colorID), ErrAttributeInUse)
	assert.ErrorIs(t, attributes.DeleteValue(values["Color:Rojo"]), ErrAttributeValueInUse)
	require.NoError(t, attributes.DeleteValue(values["Color:Negro"]))
	require.NoError(t, attributes.DeleteValue(values["Color:Negro"]))

	require.NoError(t, attributes.DeleteAttribute(sizeID))
	require.NoError(t, attributes.DeleteAttribute(sizeID))

	list, err = attributes.ListAttributes()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Values, 2)
}
