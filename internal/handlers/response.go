package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/services"
	"github.com/thermalsanctuary/booking-backend/internal/ticket"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// SuccessResponse represents a plain acknowledgement
type SuccessResponse struct {
	Message string `json:"message"`
}

// The interfaces below are what the handlers need from internal/services.

// CatalogService serves the catalog, slots and site config
type CatalogService interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	ListSlots(ctx context.Context, date string) ([]models.TimeSlotCapacity, error)
	GetSiteConfig(ctx context.Context) (map[string]string, error)
	CreateService(ctx context.Context, req *models.ServiceRequest) (*models.Service, error)
	UpdateService(ctx context.Context, id string, req *models.ServiceRequest) (*models.Service, error)
	DeleteService(ctx context.Context, id string) error
	UpsertSlot(ctx context.Context, req *models.UpsertSlotCapacityRequest) (*models.TimeSlotCapacity, error)
	SetSiteConfig(ctx context.Context, key, value string) error
}

// BookingService creates bookings and looks up tickets
type BookingService interface {
	CreateBooking(ctx context.Context, req *models.CreateBookingRequest, userAgent string) (*models.TicketResult, error)
	GetConfirmation(ctx context.Context, code string) (*ticket.Confirmation, error)
}

// AdminBookingService backs the staff booking list
type AdminBookingService interface {
	List(ctx context.Context, f models.BookingFilter) (*models.BookingListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateBookingStatusRequest, adminID uuid.UUID) (*models.Booking, error)
}

// AdminAuthService signs staff in
type AdminAuthService interface {
	Login(ctx context.Context, email, password string) (*models.AdminLoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.AdminLoginResponse, error)
}

// WizardSessionService hosts wizard sessions
type WizardSessionService interface {
	Create(ctx context.Context) (*services.WizardSessionView, error)
	Get(ctx context.Context, id string) (*services.WizardSessionView, error)
	Apply(ctx context.Context, id string, action *models.WizardActionRequest, userAgent string) (*services.WizardSessionView, error)
	Delete(ctx context.Context, id string) error
}
