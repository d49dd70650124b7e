package repository

import (
	"strings"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

type RoleRepository interface {
	WithTx(tx *gorm.DB) RoleRepository
	Create(role *model.Role) error
	FindAll() ([]model.Role, error)
	FindByID(id uint) (*model.Role, error)
	FindByName(name string, excludeID uint) (*model.Role, error)
	Update(role *model.Role) error
	Delete(id uint) error
	CountUsers(id uint) (int64, error)
	ReassignUsers(fromRoleID, toRoleID uint) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) WithTx(tx *gorm.DB) RoleRepository {
	return &roleRepository{db: tx}
}

func (r *roleRepository) Create(role *model.Role) error {
	logger.Debug("Creating role in database", map[string]interface{}{
		"name":        role.Name,
		"permissions": role.Permissions,
	})

	if err := r.db.Omit("Users").Create(role).Error; err != nil {
		logger.Error("Failed to create role in database", err, map[string]interface{}{
			"name": role.Name,
		})
		return err
	}
	return nil
}

func (r *roleRepository) FindAll() ([]model.Role, error) {
	var roles []model.Role
	if err := r.db.Preload("Users").Order("name ASC").Find(&roles).Error; err != nil {
		logger.Error("Failed to list roles", err)
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) FindByID(id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByName(name string, excludeID uint) (*model.Role, error) {
	var role model.Role
	query := r.db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) Update(role *model.Role) error {
	logger.Debug("Updating role in database", map[string]interface{}{
		"role_id": role.ID,
	})

	if err := r.db.Omit("Users").Save(role).Error; err != nil {
		logger.Error("Failed to update role in database", err, map[string]interface{}{
			"role_id": role.ID,
		})
		return err
	}
	return nil
}

func (r *roleRepository) Delete(id uint) error {
	logger.Debug("Deleting role from database", map[string]interface{}{
		"role_id": id,
	})

	if err := r.db.Delete(&model.Role{}, id).Error; err != nil {
		logger.Error("Failed to delete role from database", err, map[string]interface{}{
			"role_id": id,
		})
		return err
	}
	return nil
}

func (r *roleRepository) CountUsers(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("role_id = ?", id).Count(&count).Error
	return count, err
}

func (r *roleRepository) ReassignUsers(fromRoleID, toRoleID uint) error {
	logger.Debug("Reassigning users to another role", map[string]interface{}{
		"from_role_id": fromRoleID,
		"to_role_id":   toRoleID,
	})
	return r.db.Model(&model.User{}).Where("role_id = ?", fromRoleID).Update("role_id", toRoleID).Error
}
