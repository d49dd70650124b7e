package service

import (
	"testing"

	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyService_SaveCompany(t *testing.T) {
	env := setupTestEnv(t)
	company := NewCompanyService(repository.NewCompanyRepository(env.db))

	empty, err := company.GetCompany()
	require.NoError(t, err)
	assert.Zero(t, empty.ID)
	assert.Empty(t, empty.Name)

	saved, err := company.SaveCompany(CompanyInput{
		Name:               "Abarrotes La Esperanza",
		RFC:                "ale010203ab4",
		Email:              "Contacto@Esperanza.mx",
		Phone:              "(33) 3615-0000",
		City:               "Guadalajara",
		RepresentativeCURP: "gomp850101hdfrrd09",
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "ALE010203AB4", saved.RFC)
	assert.Equal(t, "contacto@esperanza.mx", saved.Email)
	assert.Equal(t, "3336150000", saved.Phone)
	assert.Equal(t, "GOMP850101HDFRRD09", saved.RepresentativeCURP)

	again, err := company.SaveCompany(CompanyInput{State: "Jalisco"})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)
	assert.Equal(t, "Abarrotes La Esperanza", again.Name)
	assert.Equal(t, "Guadalajara", again.City)
	assert.Equal(t, "Jalisco", again.State)

	tests := []struct {
		name    string
		input   CompanyInput
		wantErr error
	}{
		{name: "Short name", input: CompanyInput{Name: "AB"}, wantErr: ErrNameTooShort},
		{name: "Invalid RFC", input: CompanyInput{RFC: "123"}, wantErr: ErrInvalidRFC},
		{name: "Invalid email", input: CompanyInput{Email: "correo"}, wantErr: ErrInvalidEmail},
		{name: "Invalid CURP", input: CompanyInput{RepresentativeCURP: "XXXX"}, wantErr: ErrInvalidCURP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := company.SaveCompany(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stored, err := company.GetCompany()
	require.NoError(t, err)
	assert.Equal(t, "Abarrotes La Esperanza", stored.Name)
	assert.Equal(t, "ALE010203AB4", stored.RFC)
}
