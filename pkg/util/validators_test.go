package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ventas@sibors.mx", true},
		{"  contacto@proveedor.com  ", true},
		{"sin-arroba.com", false},
		{"dos@@arrobas.com", false},
		{"con espacio@dominio.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}

func TestValidRFC(t *testing.T) {
	tests := []struct {
		name string
		rfc  string
		want bool
	}{
		{"Persona moral", "ABC123456T1A", true},
		{"Persona fisica", "GODE561231GR8", true},
		{"Minusculas", "gode561231gr8", true},
		{"Con enie", "ÑAÑO850101AB1", true},
		{"Muy corto", "AB123456T1A", false},
		{"Fecha con letras", "ABCD12AB56T1A", false},
		{"Vacio", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidRFC(tt.rfc))
		})
	}
}

func TestValidCURP(t *testing.T) {
	assert.True(t, ValidCURP("GODE561231HDFRRN09"))
	assert.True(t, ValidCURP("gode561231mdfrrna9"))
	assert.False(t, ValidCURP("GODE561231XDFRRN09"))
	assert.False(t, ValidCURP("GODE561231HDFRRN0"))
	assert.False(t, ValidCURP(""))
}

func TestValidColorCode(t *testing.T) {
	assert.True(t, ValidColorCode("#FF0000"))
	assert.True(t, ValidColorCode("#00ff7f"))
	assert.False(t, ValidColorCode("FF0000"))
	assert.False(t, ValidColorCode("#FFF"))
	assert.False(t, ValidColorCode("#FF00000"))
	assert.False(t, ValidColorCode("#GG0000"))
	assert.False(t, ValidColorCode(""))
}

func TestSanitizers(t *testing.T) {
	assert.Equal(t, "Juan Perez Lopez", SanitizeString("  Juan   Perez\tLopez "))
	assert.Equal(t, "ABC123456T1A", SanitizeUpper(" abc123456t1a "))
	assert.Equal(t, "5512345678", SanitizePhone("(55) 1234-5678"))
	assert.Equal(t, "", SanitizePhone(""))
	assert.True(t, MinLength("  Ana ", 3))
	assert.False(t, MinLength(" Al ", 3))
}
