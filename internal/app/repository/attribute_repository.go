package repository

import (
	"strings"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

type AttributeRepository interface {
	WithTx(tx *gorm.DB) AttributeRepository
	Create(attr *model.Attribute) error
	FindAll() ([]model.Attribute, error)
	FindByID(id uint) (*model.Attribute, error)
	FindByName(name string, excludeID uint) (*model.Attribute, error)
	Update(attr *model.Attribute) error
	Delete(id uint) error
	CreateValue(value *model.AttributeValue) error
	FindValueByID(id uint) (*model.AttributeValue, error)
	FindValue(attributeID uint, value string, excludeID uint) (*model.AttributeValue, error)
	FindValuesByIDs(ids []uint) ([]model.AttributeValue, error)
	UpdateValue(value *model.AttributeValue) error
	DeleteValue(id uint) error
	CountVariantsUsingValues(valueIDs []uint) (int64, error)
}

type attributeRepository struct {
	db *gorm.DB
}

func NewAttributeRepository(db *gorm.DB) AttributeRepository {
	return &attributeRepository{db: db}
}

func (r *attributeRepository) WithTx(tx *gorm.DB) AttributeRepository {
	return &attributeRepository{db: tx}
}

func (r *attributeRepository) Create(attr *model.Attribute) error {
	logger.Debug("Creating attribute in database", map[string]interface{}{
		"name": attr.Name,
	})

	if err := r.db.Omit("Values").Create(attr).Error; err != nil {
		logger.Error("Failed to create attribute in database", err, map[string]interface{}{
			"name": attr.Name,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) FindAll() ([]model.Attribute, error) {
	var attrs []model.Attribute
	err := r.db.
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("attribute_values.value ASC")
		}).
		Order("name ASC").
		Find(&attrs).Error
	if err != nil {
		logger.Error("Failed to list attributes", err)
		return nil, err
	}
	return attrs, nil
}

func (r *attributeRepository) FindByID(id uint) (*model.Attribute, error) {
	var attr model.Attribute
	err := r.db.
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("attribute_values.value ASC")
		}).
		First(&attr, id).Error
	if err != nil {
		return nil, err
	}
	return &attr, nil
}

// FindByName matches case-insensitively; excludeID > 0 skips that row.
func (r *attributeRepository) FindByName(name string, excludeID uint) (*model.Attribute, error) {
	var attr model.Attribute
	query := r.db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&attr).Error; err != nil {
		return nil, err
	}
	return &attr, nil
}

func (r *attributeRepository) Update(attr *model.Attribute) error {
	logger.Debug("Updating attribute in database", map[string]interface{}{
		"attribute_id": attr.ID,
		"name":         attr.Name,
	})

	if err := r.db.Model(attr).Update("name", attr.Name).Error; err != nil {
		logger.Error("Failed to update attribute in database", err, map[string]interface{}{
			"attribute_id": attr.ID,
		})
		return err
	}
	return nil
}

// Delete removes the attribute together with its values
func (r *attributeRepository) Delete(id uint) error {
	logger.Debug("Deleting attribute from database", map[string]interface{}{
		"attribute_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attribute_id = ?", id).Delete(&model.AttributeValue{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Attribute{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete attribute from database", err, map[string]interface{}{
			"attribute_id": id,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) CreateValue(value *model.AttributeValue) error {
	logger.Debug("Creating attribute value in database", map[string]interface{}{
		"attribute_id": value.AttributeID,
		"value":        value.Value,
	})

	if err := r.db.Omit("Attribute").Create(value).Error; err != nil {
		logger.Error("Failed to create attribute value in database", err, map[string]interface{}{
			"attribute_id": value.AttributeID,
			"value":        value.Value,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) FindValueByID(id uint) (*model.AttributeValue, error) {
	var value model.AttributeValue
	if err := r.db.Preload("Attribute").First(&value, id).Error; err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *attributeRepository) FindValue(attributeID uint, value string, excludeID uint) (*model.AttributeValue, error) {
	var found model.AttributeValue
	query := r.db.Where("attribute_id = ? AND LOWER(value) = ?", attributeID, strings.ToLower(strings.TrimSpace(value)))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&found).Error; err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *attributeRepository) FindValuesByIDs(ids []uint) ([]model.AttributeValue, error) {
	var values []model.AttributeValue
	if len(ids) == 0 {
		return values, nil
	}
	if err := r.db.Preload("Attribute").Where("id IN ?", ids).Find(&values).Error; err != nil {
		logger.Error("Failed to load attribute values", err, map[string]interface{}{
			"ids": ids,
		})
		return nil, err
	}
	return values, nil
}

func (r *attributeRepository) UpdateValue(value *model.AttributeValue) error {
	logger.Debug("Updating attribute value in database", map[string]interface{}{
		"value_id": value.ID,
	})

	err := r.db.Model(value).Select("value", "color_code").Updates(map[string]interface{}{
		"value":      value.Value,
		"color_code": value.ColorCode,
	}).Error
	if err != nil {
		logger.Error("Failed to update attribute value in database", err, map[string]interface{}{
			"value_id": value.ID,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) DeleteValue(id uint) error {
	logger.Debug("Deleting attribute value from database", map[string]interface{}{
		"value_id": id,
	})

	if err := r.db.Delete(&model.AttributeValue{}, id).Error; err != nil {
		logger.Error("Failed to delete attribute value from database", err, map[string]interface{}{
			"value_id": id,
		})
		return err
	}
	return nil
}

// CountVariantsUsingValues looks at the variant/value join table
func (r *attributeRepository) CountVariantsUsingValues(valueIDs []uint) (int64, error) {
	if len(valueIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&model.VariantAttributeValue{}).
		Where("attribute_value_id IN ?", valueIDs).
		Distinct("variant_id").
		Count(&count).Error
	return count, err
}
