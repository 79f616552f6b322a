package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thermalsanctuary/booking-backend/internal/database"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*AdminAuthService, *MockAdminUserStore, *jwt.Service) {
	t.Helper()
	store := new(MockAdminUserStore)
	tokens := jwt.NewService("access-secret-for-tests", "refresh-secret-for-tests", 15*time.Minute, 24*time.Hour)
	return NewAdminAuthService(store, tokens, bcrypt.MinCost, quietLogger()), store, tokens
}

func adminWithPassword(t *testing.T, password string, active bool) *models.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.AdminUser{
		ID:           uuid.New(),
		Email:        "staff@sanctuary.co",
		PasswordHash: string(hash),
		FullName:     "Front Desk",
		IsActive:     active,
	}
}

func TestAdminLogin_Success(t *testing.T) {
	svc, store, tokens := newAuthFixture(t)
	admin := adminWithPassword(t, "correct-horse", true)
	store.On("GetByEmail", mock.Anything, "staff@sanctuary.co").Return(admin, nil)
	store.On("UpdateLastLogin", mock.Anything, admin.ID).Return(nil)

	resp, err := svc.Login(context.Background(), "staff@sanctuary.co", "correct-horse")

	require.NoError(t, err)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Equal(t, admin, resp.AdminUser)

	claims, err := tokens.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.True(t, claims.HasRole(AdminRole))
	store.AssertExpectations(t)
}

func TestAdminLogin_LastLoginFailureDoesNotBlock(t *testing.T) {
	svc, store, _ := newAuthFixture(t)
	admin := adminWithPassword(t, "correct-horse", true)
	store.On("GetByEmail", mock.Anything, admin.Email).Return(admin, nil)
	store.On("UpdateLastLogin", mock.Anything, admin.ID).Return(errors.New("timeout"))

	_, err := svc.Login(context.Background(), admin.Email, "correct-horse")
	assert.NoError(t, err)
}

func TestAdminLogin_Rejections(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		svc, store, _ := newAuthFixture(t)
		store.On("GetByEmail", mock.Anything, "nobody@sanctuary.co").Return(nil, database.ErrNotFound)

		_, err := svc.Login(context.Background(), "nobody@sanctuary.co", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, store, _ := newAuthFixture(t)
		admin := adminWithPassword(t, "correct-horse", true)
		store.On("GetByEmail", mock.Anything, admin.Email).Return(admin, nil)

		_, err := svc.Login(context.Background(), admin.Email, "battery-staple")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		store.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything)
	})

	t.Run("inactive account", func(t *testing.T) {
		svc, store, _ := newAuthFixture(t)
		admin := adminWithPassword(t, "correct-horse", false)
		store.On("GetByEmail", mock.Anything, admin.Email).Return(admin, nil)

		_, err := svc.Login(context.Background(), admin.Email, "correct-horse")
		assert.ErrorIs(t, err, ErrAccountInactive)
	})
}

func TestAdminRefreshToken(t *testing.T) {
	svc, store, tokens := newAuthFixture(t)
	admin := adminWithPassword(t, "correct-horse", true)
	store.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)

	refresh, err := tokens.GenerateRefreshToken(admin.ID, admin.Email)
	require.NoError(t, err)

	resp, err := svc.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestAdminRefreshToken_RejectsAccessToken(t *testing.T) {
	svc, _, tokens := newAuthFixture(t)
	access, err := tokens.GenerateAccessToken(uuid.New(), "staff@sanctuary.co", []string{AdminRole})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), access)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAdminRefreshToken_DeactivatedAccount(t *testing.T) {
	svc, store, tokens := newAuthFixture(t)
	admin := adminWithPassword(t, "correct-horse", false)
	store.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)

	refresh, err := tokens.GenerateRefreshToken(admin.ID, admin.Email)
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestCreateAdmin(t *testing.T) {
	svc, store, _ := newAuthFixture(t)
	store.On("Create", mock.Anything, mock.AnythingOfType("*models.AdminUser")).Return(nil)

	admin, err := svc.CreateAdmin(context.Background(), " Staff@Sanctuary.CO ", "long-enough", " Front Desk ")

	require.NoError(t, err)
	assert.Equal(t, "staff@sanctuary.co", admin.Email)
	assert.Equal(t, "Front Desk", admin.FullName)
	assert.True(t, admin.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("long-enough")))
}

func TestCreateAdmin_Invalid(t *testing.T) {
	svc, store, _ := newAuthFixture(t)

	_, err := svc.CreateAdmin(context.Background(), "not-an-email", "long-enough", "x")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateAdmin(context.Background(), "staff@sanctuary.co", "short", "x")
	assert.ErrorIs(t, err, ErrInvalidInput)

	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
