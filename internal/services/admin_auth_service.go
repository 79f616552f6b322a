package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/pkg/jwt"
	"github.com/thermalsanctuary/booking-backend/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// AdminRole is the role carried by staff access tokens
const AdminRole = "admin"

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountInactive is returned when a disabled account tries to sign in
	ErrAccountInactive = errors.New("account is inactive")

	// ErrInvalidRefreshToken is returned when a refresh token cannot be used
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// MinPasswordLength is enforced when creating staff accounts
const MinPasswordLength = 8

// AdminAuthService handles admin authentication business logic
type AdminAuthService struct {
	adminRepo  AdminUserStore
	jwtService *jwt.Service
	bcryptCost int
	logger     *logrus.Logger
}

// NewAdminAuthService creates a new admin auth service
func NewAdminAuthService(adminRepo AdminUserStore, jwtService *jwt.Service, bcryptCost int, logger *logrus.Logger) *AdminAuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AdminAuthService{
		adminRepo:  adminRepo,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Login authenticates an admin user and returns tokens
func (s *AdminAuthService) Login(ctx context.Context, email, password string) (*models.AdminLoginResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !admin.IsActive {
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	resp, err := s.issueTokens(admin)
	if err != nil {
		return nil, err
	}

	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID); err != nil {
		// Log error but don't fail the login
		s.logger.WithError(err).WithField("admin_id", admin.ID).Warn("Failed to update last login")
	}

	return resp, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair.
// Refresh tokens are stateless; a deactivated account can no longer refresh.
func (s *AdminAuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.AdminLoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	admin, err := s.adminRepo.GetByID(ctx, claims.AdminID)
	if err != nil {
		return nil, fmt.Errorf("%w: admin user not found", ErrInvalidRefreshToken)
	}

	if !admin.IsActive {
		return nil, ErrAccountInactive
	}

	return s.issueTokens(admin)
}

func (s *AdminAuthService) issueTokens(admin *models.AdminUser) (*models.AdminLoginResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(admin.ID, admin.Email, []string{AdminRole})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(admin.ID, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &models.AdminLoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtService.AccessTokenExpiry().Seconds()),
		AdminUser:    admin,
	}, nil
}

// CreateAdmin creates a new active admin user
func (s *AdminAuthService) CreateAdmin(ctx context.Context, email, password, fullName string) (*models.AdminUser, error) {
	email, err := validator.ValidateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.AdminUser{
		Email:        strings.ToLower(email),
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(fullName),
		IsActive:     true,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	s.logger.WithField("admin_id", admin.ID).Info("Admin user created")
	return admin, nil
}
