package service

import (
	"errors"
	"strings"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"github.com/sibors/sibors-backend/pkg/util"
	"gorm.io/gorm"
)

type AttributeService interface {
	CreateAttribute(name string) (*model.Attribute, error)
	ListAttributes() ([]model.Attribute, error)
	RenameAttribute(id uint, name string) (*model.Attribute, error)
	DeleteAttribute(id uint) error
	AddValue(attributeID uint, value string, colorCode *string) (*model.AttributeValue, error)
	UpdateValue(valueID uint, value string, colorCode *string) (*model.AttributeValue, error)
	DeleteValue(valueID uint) error
}

type attributeService struct {
	attributeRepo repository.AttributeRepository
}

func NewAttributeService(attributeRepo repository.AttributeRepository) AttributeService {
	return &attributeService{attributeRepo: attributeRepo}
}

func normalizeColorCode(code *string) (*string, error) {
	if code == nil {
		return nil, nil
	}
	trimmed := strings.ToUpper(strings.TrimSpace(*code))
	if trimmed == "" {
		return nil, nil
	}
	if !util.ValidColorCode(trimmed) {
		return nil, ErrInvalidColorCode
	}
	return &trimmed, nil
}

func (s *attributeService) checkName(name string, excludeID uint) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	_, err := s.attributeRepo.FindByName(name, excludeID)
	if err == nil {
		return "", ErrDuplicateAttributeName
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return name, nil
}

func (s *attributeService) CreateAttribute(name string) (*model.Attribute, error) {
	name, err := s.checkName(name, 0)
	if err != nil {
		return nil, err
	}
	attr := &model.Attribute{Name: name}
	if err := s.attributeRepo.Create(attr); err != nil {
		return nil, err
	}
	logger.Info("Attribute created", map[string]interface{}{
		"attribute_id": attr.ID,
		"name":         name,
	})
	return attr, nil
}

func (s *attributeService) ListAttributes() ([]model.Attribute, error) {
	return s.attributeRepo.FindAll()
}

func (s *attributeService) RenameAttribute(id uint, name string) (*model.Attribute, error) {
	attr, err := s.attributeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttributeNotFound
		}
		return nil, err
	}
	name, err = s.checkName(name, id)
	if err != nil {
		return nil, err
	}
	attr.Name = name
	if err := s.attributeRepo.Update(attr); err != nil {
		return nil, err
	}
	return attr, nil
}

// DeleteAttribute removes the attribute and its values unless a variant uses
// any of them. A missing attribute is not an error.
func (s *attributeService) DeleteAttribute(id uint) error {
	attr, err := s.attributeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	valueIDs := make([]uint, 0, len(attr.Values))
	for _, v := range attr.Values {
		valueIDs = append(valueIDs, v.ID)
	}
	used, err := s.attributeRepo.CountVariantsUsingValues(valueIDs)
	if err != nil {
		return err
	}
	if used > 0 {
		logger.Warn("Cannot delete attribute in use", map[string]interface{}{
			"attribute_id": id,
			"variants":     used,
		})
		return ErrAttributeInUse
	}

	if err := s.attributeRepo.Delete(id); err != nil {
		return err
	}
	logger.Info("Attribute deleted", map[string]interface{}{
		"attribute_id": id,
	})
	return nil
}

func (s *attributeService) checkValue(attributeID uint, value string, excludeID uint) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrNameRequired
	}
	_, err := s.attributeRepo.FindValue(attributeID, value, excludeID)
	if err == nil {
		return "", ErrDuplicateAttributeValue
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return value, nil
}

func (s *attributeService) AddValue(attributeID uint, value string, colorCode *string) (*model.AttributeValue, error) {
	if _, err := s.attributeRepo.FindByID(attributeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttributeNotFound
		}
		return nil, err
	}
	value, err := s.checkValue(attributeID, value, 0)
	if err != nil {
		return nil, err
	}
	code, err := normalizeColorCode(colorCode)
	if err != nil {
		return nil, err
	}

	attrValue := &model.AttributeValue{AttributeID: attributeID, Value: value, ColorCode: code}
	if err := s.attributeRepo.CreateValue(attrValue); err != nil {
		return nil, err
	}
	return attrValue, nil
}

func (s *attributeService) UpdateValue(valueID uint, value string, colorCode *string) (*model.AttributeValue, error) {
	attrValue, err := s.attributeRepo.FindValueByID(valueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttributeValueNotFound
		}
		return nil, err
	}
	value, err = s.checkValue(attrValue.AttributeID, value, valueID)
	if err != nil {
		return nil, err
	}
	code, err := normalizeColorCode(colorCode)
	if err != nil {
		return nil, err
	}

	attrValue.Value = value
	attrValue.ColorCode = code
	if err := s.attributeRepo.UpdateValue(attrValue); err != nil {
		return nil, err
	}
	return attrValue, nil
}

func (s *attributeService) DeleteValue(valueID uint) error {
	if _, err := s.attributeRepo.FindValueByID(valueID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	used, err := s.attributeRepo.CountVariantsUsingValues([]uint{valueID})
	if err != nil {
		return err
	}
	if used > 0 {
		return ErrAttributeValueInUse
	}
	return s.attributeRepo.DeleteValue(valueID)
}
