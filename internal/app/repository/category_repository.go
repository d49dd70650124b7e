package repository

import (
	"strings"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository
	Create(category *model.Category) error
	FindAll() ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindByName(name string, excludeID uint) (*model.Category, error)
	Update(category *model.Category) error
	Delete(id uint) error
	CountChildren(id uint) (int64, error)
	CountTemplates(id uint) (int64, error)
	FindIDsWithTemplates() ([]uint, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name":      category.Name,
		"parent_id": category.ParentID,
	})

	if err := r.db.Omit("Parent", "Children").Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.Preload("Parent").First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByName(name string, excludeID uint) (*model.Category, error) {
	var category model.Category
	query := r.db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	logger.Debug("Updating category in database", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
		"parent_id":   category.ParentID,
	})

	err := r.db.Model(category).Select("name", "parent_id").Updates(map[string]interface{}{
		"name":      category.Name,
		"parent_id": category.ParentID,
	}).Error
	if err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Delete(id uint) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	if err := r.db.Delete(&model.Category{}, id).Error; err != nil {
		logger.Error("Failed to delete category from database", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) CountChildren(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

func (r *categoryRepository) CountTemplates(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ProductTemplate{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

func (r *categoryRepository) FindIDsWithTemplates() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.ProductTemplate{}).
		Where("category_id IS NOT NULL").
		Distinct().
		Pluck("category_id", &ids).Error
	return ids, err
}
