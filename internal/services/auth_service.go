package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/pkg/jwt"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"golang.org/x/crypto/bcrypt"
)

var _ AuthService = (*authService)(nil)

type authService struct {
	managers        repositories.ManagerRepository
	tokens          *jwt.TokenService
	notifier        NotificationService
	superAdminEmail string
	now             func() time.Time
}

// NewAuthService creates a new AuthService implementation. notifier may be nil.
func NewAuthService(managers repositories.ManagerRepository, tokens *jwt.TokenService, notifier NotificationService, superAdminEmail string) AuthService {
	return &authService{
		managers:        managers,
		tokens:          tokens,
		notifier:        notifier,
		superAdminEmail: strings.ToLower(strings.TrimSpace(superAdminEmail)),
		now:             time.Now,
	}
}

// Register signs a manager up and logs them in
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, invalid("email", "is required")
	}
	if len(req.Password) < 6 {
		return nil, invalid("password", "must be at least 6 characters")
	}

	if _, err := s.managers.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storeErr("find manager", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleManager
	if s.superAdminEmail != "" && email == s.superAdminEmail {
		role = models.RoleSuperAdmin
	}
	manager := &models.Manager{
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    s.now(),
	}
	manager.UpdatedAt = manager.CreatedAt

	if err := s.managers.Create(ctx, manager); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		logx.L().Errorw("Failed to create manager", "error", err, "email", email)
		return nil, storeErr("create manager", err)
	}
	logx.L().Infow("Manager registered", "managerId", manager.ID, "role", manager.Role)

	if s.notifier != nil {
		if err := s.notifier.NotifyManagerSignup(ctx, manager); err != nil {
			logx.L().Warnw("Failed to notify super admin of sign-up", "error", err, "managerId", manager.ID)
		}
	}
	return s.issue(manager)
}

// Login checks the password and issues a manager token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	manager, err := s.managers.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeErr("find manager", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(manager.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(manager)
}

// Me returns the manager behind a token
func (s *authService) Me(ctx context.Context, managerID string) (*models.Manager, error) {
	manager, err := s.managers.FindByID(ctx, managerID)
	if err != nil {
		return nil, storeErr("find manager", err)
	}
	return manager, nil
}

func (s *authService) issue(manager *models.Manager) (*models.LoginResponse, error) {
	token, err := s.tokens.IssueManagerToken(manager.ID, manager.Email, manager.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.LoginResponse{Token: token, Manager: manager}, nil
}
