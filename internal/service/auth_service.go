package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/auth"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/mapper"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
)

// ErrInvalidCredentials is returned on a failed login. The message never
// distinguishes an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService authenticates users and issues access tokens
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenManager
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, tokens *auth.TokenManager, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Login verifies credentials and returns a signed token with the user's
// current role assignments baked in
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	roleIDs, err := s.userRepo.RoleIDsForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user roles: %w", err)
	}
	roleNames, err := s.userRepo.RoleNamesForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user roles: %w", err)
	}

	uc := &auth.UserContext{
		UserID:      user.ID,
		DisplayName: user.FullName(),
		Email:       user.Email,
		RoleIDs:     roleIDs,
		RoleNames:   roleNames,
	}
	if user.CompanyID != nil {
		uc.CompanyID = *user.CompanyID
	}

	token, err := s.tokens.IssueToken(uc)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.String("userId", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("user logged in", zap.String("userId", user.ID.String()))
	return &domain.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.tokenTTL.Seconds()),
		User:      *mapper.ToUserDTO(user),
	}, nil
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context) (*domain.UserDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.GetByID(ctx, uc.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return mapper.ToUserDTO(user), nil
}
