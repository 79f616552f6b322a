package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/services"
	"github.com/thermalsanctuary/booking-backend/internal/ticket"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *MockCatalogService) ListSlots(ctx context.Context, date string) ([]models.TimeSlotCapacity, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TimeSlotCapacity), args.Error(1)
}

func (m *MockCatalogService) GetSiteConfig(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockCatalogService) CreateService(ctx context.Context, req *models.ServiceRequest) (*models.Service, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockCatalogService) UpdateService(ctx context.Context, id string, req *models.ServiceRequest) (*models.Service, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockCatalogService) DeleteService(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) UpsertSlot(ctx context.Context, req *models.UpsertSlotCapacityRequest) (*models.TimeSlotCapacity, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeSlotCapacity), args.Error(1)
}

func (m *MockCatalogService) SetSiteConfig(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest, userAgent string) (*models.TicketResult, error) {
	args := m.Called(ctx, req, userAgent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketResult), args.Error(1)
}

func (m *MockBookingService) GetConfirmation(ctx context.Context, code string) (*ticket.Confirmation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.Confirmation), args.Error(1)
}

type MockAdminBookingService struct {
	mock.Mock
}

func (m *MockAdminBookingService) List(ctx context.Context, f models.BookingFilter) (*models.BookingListResponse, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingListResponse), args.Error(1)
}

func (m *MockAdminBookingService) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateBookingStatusRequest, adminID uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

type MockAdminAuthService struct {
	mock.Mock
}

func (m *MockAdminAuthService) Login(ctx context.Context, email, password string) (*models.AdminLoginResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminLoginResponse), args.Error(1)
}

func (m *MockAdminAuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.AdminLoginResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminLoginResponse), args.Error(1)
}

type MockWizardSessionService struct {
	mock.Mock
}

func (m *MockWizardSessionService) Create(ctx context.Context) (*services.WizardSessionView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.WizardSessionView), args.Error(1)
}

func (m *MockWizardSessionService) Get(ctx context.Context, id string) (*services.WizardSessionView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.WizardSessionView), args.Error(1)
}

func (m *MockWizardSessionService) Apply(ctx context.Context, id string, action *models.WizardActionRequest, userAgent string) (*services.WizardSessionView, error) {
	args := m.Called(ctx, id, action, userAgent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.WizardSessionView), args.Error(1)
}

func (m *MockWizardSessionService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "handler-test")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
