package service

import (
	"errors"
	"strings"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

type RoleService interface {
	CreateRole(name string, permissions []string) (*model.Role, error)
	UpdateRole(id uint, name string, permissions []string) (*model.Role, error)
	// DeleteRole moves the role's users to reassignTo first when given.
	DeleteRole(id uint, reassignTo *uint) error
	ListRoles() ([]model.Role, error)
	GetRole(id uint) (*model.Role, error)
}

type roleService struct {
	db       *gorm.DB
	roleRepo repository.RoleRepository
}

func NewRoleService(db *gorm.DB, roleRepo repository.RoleRepository) RoleService {
	return &roleService{db: db, roleRepo: roleRepo}
}

// cleanPermissions drops unknown modules and duplicates, keeping menu order.
func cleanPermissions(permissions []string) []string {
	wanted := make(map[string]bool, len(permissions))
	for _, p := range permissions {
		wanted[strings.ToLower(strings.TrimSpace(p))] = true
	}
	result := make([]string, 0, len(wanted))
	for _, module := range model.AvailableModules {
		if wanted[module] {
			result = append(result, module)
		}
	}
	return result
}

func (s *roleService) checkName(name string, excludeID uint) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	_, err := s.roleRepo.FindByName(name, excludeID)
	if err == nil {
		return "", ErrDuplicateRoleName
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return name, nil
}

func (s *roleService) CreateRole(name string, permissions []string) (*model.Role, error) {
	name, err := s.checkName(name, 0)
	if err != nil {
		return nil, err
	}
	role := &model.Role{Name: name, Permissions: cleanPermissions(permissions)}
	if err := s.roleRepo.Create(role); err != nil {
		return nil, err
	}
	logger.Info("Role created", map[string]interface{}{
		"role_id":     role.ID,
		"name":        name,
		"permissions": role.Permissions,
	})
	return role, nil
}

func (s *roleService) UpdateRole(id uint, name string, permissions []string) (*model.Role, error) {
	role, err := s.GetRole(id)
	if err != nil {
		return nil, err
	}
	if role.IsAdmin() {
		// Admin keeps its name and every permission
		return role, nil
	}
	name, err = s.checkName(name, id)
	if err != nil {
		return nil, err
	}
	role.Name = name
	role.Permissions = cleanPermissions(permissions)
	if err := s.roleRepo.Update(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) DeleteRole(id uint, reassignTo *uint) error {
	role, err := s.GetRole(id)
	if err != nil {
		return err
	}
	if role.IsAdmin() {
		return ErrCannotDeleteAdmin
	}

	count, err := s.roleRepo.CountUsers(id)
	if err != nil {
		return err
	}
	if count > 0 && (reassignTo == nil || *reassignTo == id) {
		logger.Warn("Cannot delete role with users", map[string]interface{}{
			"role_id": id,
			"users":   count,
		})
		return ErrRoleInUse
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		roles := s.roleRepo.WithTx(tx)
		if count > 0 {
			if _, err := roles.FindByID(*reassignTo); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrRoleNotFound
				}
				return err
			}
			if err := roles.ReassignUsers(id, *reassignTo); err != nil {
				return err
			}
		}
		if err := roles.Delete(id); err != nil {
			return err
		}
		logger.Info("Role deleted", map[string]interface{}{
			"role_id":     id,
			"reassign_to": reassignTo,
		})
		return nil
	})
}

func (s *roleService) ListRoles() ([]model.Role, error) {
	return s.roleRepo.FindAll()
}

func (s *roleService) GetRole(id uint) (*model.Role, error) {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return role, nil
}
