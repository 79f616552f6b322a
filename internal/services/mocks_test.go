package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// MockBookingStore is a mock implementation of BookingStore
type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) Create(ctx context.Context, b *models.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingStore) GetByTicketCode(ctx context.Context, code string) (*models.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingStore) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingStore) Stats(ctx context.Context) (*models.BookingStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingStats), args.Error(1)
}

func (m *MockBookingStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

// MockServiceStore is a mock implementation of ServiceStore
type MockServiceStore struct {
	mock.Mock
}

func (m *MockServiceStore) List(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *MockServiceStore) GetByID(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockServiceStore) Create(ctx context.Context, s *models.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockServiceStore) Update(ctx context.Context, s *models.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockServiceStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockSlotStore is a mock implementation of SlotStore
type MockSlotStore struct {
	mock.Mock
}

func (m *MockSlotStore) ListByDate(ctx context.Context, date string) ([]models.TimeSlotCapacity, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TimeSlotCapacity), args.Error(1)
}

func (m *MockSlotStore) Upsert(ctx context.Context, req *models.UpsertSlotCapacityRequest) (*models.TimeSlotCapacity, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeSlotCapacity), args.Error(1)
}

// MockSiteConfigStore is a mock implementation of SiteConfigStore
type MockSiteConfigStore struct {
	mock.Mock
}

func (m *MockSiteConfigStore) GetMap() (map[string]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSiteConfigStore) Set(key, value string) error {
	return m.Called(key, value).Error(0)
}

// MockAdminUserStore is a mock implementation of AdminUserStore
type MockAdminUserStore struct {
	mock.Mock
}

func (m *MockAdminUserStore) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

func (m *MockAdminUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

func (m *MockAdminUserStore) Create(ctx context.Context, admin *models.AdminUser) error {
	return m.Called(ctx, admin).Error(0)
}

func (m *MockAdminUserStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// testNow is a Tuesday afternoon; testDate is the following Thursday
var testNow = time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)

const testDate = "2026-03-12"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testCatalog() []models.Service {
	return []models.Service{
		{ID: "mud", Title: "Mud Ritual", Price: 150000, Category: models.ServiceCategoryTreatment},
		{ID: "massage", Title: "Hot Stone Massage", Price: 120000, Category: models.ServiceCategoryTreatment},
		{ID: "cabin", Title: "Forest Cabin", Price: 400000, Category: models.ServiceCategoryLodging},
	}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"bookings_ticket_code_key\""}
}
