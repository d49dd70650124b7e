package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"github.com/sibors/sibors-backend/pkg/util"
	"gorm.io/gorm"
)

// DeletionGracePeriod is how long a user must stay deactivated before removal.
const DeletionGracePeriod = 30 * 24 * time.Hour

type CreateUserInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	RoleID   uint   `json:"role_id"`
}

type UpdateUserInput struct {
	Name        *string `json:"name"`
	Username    *string `json:"username"`
	NewPassword string  `json:"new_password"`
	RoleID      *uint   `json:"role_id"`
	Active      *bool   `json:"active"`
}

type UserService interface {
	CreateUser(input CreateUserInput) (*model.User, error)
	UpdateUser(id uint, input UpdateUserInput) (*model.User, error)
	DeleteUser(id uint) error
	ListUsers() ([]model.User, error)
	GetUser(id uint) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{userRepo: userRepo, roleRepo: roleRepo, now: time.Now}
}

func (s *userService) checkRole(id uint) error {
	if _, err := s.roleRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	return nil
}

func (s *userService) checkUsername(username string, excludeID uint) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrNameRequired
	}
	existing, err := s.userRepo.FindByUsername(username)
	if err == nil && existing.ID != excludeID {
		return "", ErrDuplicateUsername
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return username, nil
}

func (s *userService) CreateUser(input CreateUserInput) (*model.User, error) {
	logger.Info("Creating user", map[string]interface{}{
		"username": input.Username,
		"role_id":  input.RoleID,
	})

	name := util.SanitizeString(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	username, err := s.checkUsername(input.Username, 0)
	if err != nil {
		return nil, err
	}
	if err := s.checkRole(input.RoleID); err != nil {
		return nil, err
	}
	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, ErrPasswordRequired
	}

	user := &model.User{
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		Active:       true,
		RoleID:       input.RoleID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return s.GetUser(user.ID)
}

// UpdateUser applies the fields that are set. Deactivating stamps the time,
// reactivating clears it.
func (s *userService) UpdateUser(id uint, input UpdateUserInput) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := util.SanitizeString(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		user.Name = name
	}
	if input.Username != nil {
		username, err := s.checkUsername(*input.Username, id)
		if err != nil {
			return nil, err
		}
		user.Username = username
	}
	if input.RoleID != nil {
		if err := s.checkRole(*input.RoleID); err != nil {
			return nil, err
		}
		user.RoleID = *input.RoleID
	}
	if input.NewPassword != "" {
		hash, err := util.HashPassword(input.NewPassword)
		if err != nil {
			return nil, ErrPasswordRequired
		}
		user.PasswordHash = hash
	}
	if input.Active != nil && *input.Active != user.Active {
		user.Active = *input.Active
		if user.Active {
			user.DeactivatedAt = nil
		} else {
			now := s.now()
			user.DeactivatedAt = &now
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	logger.Info("User updated", map[string]interface{}{
		"user_id": id,
		"active":  user.Active,
	})
	return s.GetUser(id)
}

// DeleteUser removes a user for good. Only inactive non-admin users that have
// been deactivated for the grace period qualify. A missing user is a no-op.
func (s *userService) DeleteUser(id uint) error {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if user.Active {
		return ErrUserStillActive
	}
	if user.Role != nil && strings.EqualFold(user.Role.Name, model.AdminRoleName) {
		return ErrCannotDeleteAdmin
	}
	if user.DeactivatedAt == nil {
		return ErrDeactivationTooRecent
	}
	elapsed := s.now().Sub(*user.DeactivatedAt)
	if elapsed < DeletionGracePeriod {
		remaining := int((DeletionGracePeriod - elapsed + 24*time.Hour - 1) / (24 * time.Hour))
		logger.Warn("User deletion blocked by grace period", map[string]interface{}{
			"user_id":        id,
			"days_remaining": remaining,
		})
		return fmt.Errorf("%w. Faltan %d día(s)", ErrDeactivationTooRecent, remaining)
	}

	if err := s.userRepo.Delete(id); err != nil {
		return err
	}
	logger.Info("User deleted permanently", map[string]interface{}{
		"user_id": id,
	})
	return nil
}

func (s *userService) ListUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *userService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
