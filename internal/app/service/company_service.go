package service

import (
	"fmt"
	"strings"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"github.com/sibors/sibors-backend/pkg/util"
)

// CompanyInput carries a partial profile; empty fields keep the stored value.
type CompanyInput struct {
	Name               string `json:"name"`
	RFC                string `json:"rfc"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Street             string `json:"street"`
	Number             string `json:"number"`
	Neighborhood       string `json:"neighborhood"`
	PostalCode         string `json:"postal_code"`
	City               string `json:"city"`
	State              string `json:"state"`
	RepresentativeName string `json:"representative_name"`
	RepresentativeCURP string `json:"representative_curp"`
	LogoPath           string `json:"logo_path"`
}

type CompanyService interface {
	GetCompany() (*model.Company, error)
	SaveCompany(input CompanyInput) (*model.Company, error)
}

type companyService struct {
	companyRepo repository.CompanyRepository
}

func NewCompanyService(companyRepo repository.CompanyRepository) CompanyService {
	return &companyService{companyRepo: companyRepo}
}

// GetCompany returns the stored profile, or an empty one before the first save.
func (s *companyService) GetCompany() (*model.Company, error) {
	company, err := s.companyRepo.Get()
	if err != nil {
		return nil, err
	}
	if company == nil {
		return &model.Company{}, nil
	}
	return company, nil
}

func (s *companyService) SaveCompany(input CompanyInput) (*model.Company, error) {
	company, err := s.GetCompany()
	if err != nil {
		return nil, err
	}

	if name := util.SanitizeString(input.Name); name != "" {
		if !util.MinLength(name, 3) {
			return nil, ErrNameTooShort
		}
		company.Name = name
	}
	if rfc := util.SanitizeUpper(input.RFC); rfc != "" {
		if !util.ValidRFC(rfc) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRFC, rfc)
		}
		company.RFC = rfc
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" {
		if !util.ValidEmail(email) {
			return nil, ErrInvalidEmail
		}
		company.Email = email
	}
	if curp := util.SanitizeUpper(input.RepresentativeCURP); curp != "" {
		if !util.ValidCURP(curp) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCURP, curp)
		}
		company.RepresentativeCURP = curp
	}
	if phone := util.SanitizePhone(input.Phone); phone != "" {
		company.Phone = phone
	}

	setIfPresent(&company.Street, input.Street)
	setIfPresent(&company.Number, input.Number)
	setIfPresent(&company.Neighborhood, input.Neighborhood)
	setIfPresent(&company.PostalCode, input.PostalCode)
	setIfPresent(&company.City, input.City)
	setIfPresent(&company.State, input.State)
	setIfPresent(&company.RepresentativeName, input.RepresentativeName)
	setIfPresent(&company.LogoPath, input.LogoPath)

	if err := s.companyRepo.Save(company); err != nil {
		return nil, err
	}
	logger.Info("Company profile saved", map[string]interface{}{
		"company_id": company.ID,
		"name":       company.Name,
	})
	return company, nil
}

func setIfPresent(field *string, value string) {
	if value = util.SanitizeString(value); value != "" {
		*field = value
	}
}
