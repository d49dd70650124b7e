package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"github.com/sibors/sibors-backend/pkg/util"
	"gorm.io/gorm"
)

// TokenRevoker remembers logged out tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type AuthService interface {
	Login(username, password string) (*model.User, *util.TokenPair, error)
	Refresh(refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, tokens ...string) error
	GetUserByID(id uint) (*model.User, error)
	ChangePassword(userID uint, current, next string) error
}

type authService struct {
	userRepo      repository.UserRepository
	revoker       TokenRevoker
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	revoker TokenRevoker,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		revoker:       revoker,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// permissionsFor returns the modules a user may open. Admin gets all of them.
func permissionsFor(user *model.User) []string {
	if user.Role == nil {
		return nil
	}
	if user.Role.IsAdmin() {
		return model.AvailableModules
	}
	return user.Role.Permissions
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	return util.GenerateTokenPair(
		user.ID,
		user.Username,
		roleName,
		permissionsFor(user),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
}

func (s *authService) Login(username, password string) (*model.User, *util.TokenPair, error) {
	username = strings.TrimSpace(username)
	logger.Info("Login attempt", map[string]interface{}{
		"username": username,
	})

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": username,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	if !user.Active || !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: inactive user or wrong password", map[string]interface{}{
			"user_id": user.ID,
			"active":  user.Active,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, tokens, nil
}

// Refresh exchanges a refresh token for a new pair. Role changes made since
// the last login are picked up here.
func (s *authService) Refresh(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != util.TokenTypeRefresh {
		return nil, util.ErrInvalidToken
	}
	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(context.Background(), refreshToken)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, util.ErrInvalidToken
		}
	}

	user, err := s.GetUserByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// Logout revokes the given tokens for their remaining lifetime. Without a
// revoker it only logs.
func (s *authService) Logout(ctx context.Context, tokens ...string) error {
	if s.revoker == nil {
		logger.Info("Logout without token revocation configured")
		return nil
	}
	for _, token := range tokens {
		if token == "" {
			continue
		}
		claims, err := util.ValidateToken(token, s.jwtSecret)
		if err != nil {
			continue
		}
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := s.revoker.Revoke(ctx, token, ttl); err != nil {
			return err
		}
		logger.Info("Token revoked", map[string]interface{}{
			"user_id":    claims.UserID,
			"token_type": claims.TokenType,
		})
	}
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) ChangePassword(userID uint, current, next string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if !util.VerifyPassword(user.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	hash, err := util.HashPassword(next)
	if err != nil {
		return ErrPasswordRequired
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
