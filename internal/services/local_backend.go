package services

import (
	"context"

	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/wizard"
)

// LocalBackend serves the wizard in-process, straight from the services
type LocalBackend struct {
	catalog   *CatalogService
	bookings  *BookingService
	userAgent string
}

var _ wizard.Backend = (*LocalBackend)(nil)

// NewLocalBackend creates a backend for hosted wizard sessions
func NewLocalBackend(catalog *CatalogService, bookings *BookingService) *LocalBackend {
	return &LocalBackend{catalog: catalog, bookings: bookings}
}

// WithUserAgent returns a copy that records ua on created bookings
func (b *LocalBackend) WithUserAgent(ua string) *LocalBackend {
	cp := *b
	cp.userAgent = ua
	return &cp
}

func (b *LocalBackend) ListServices(ctx context.Context) ([]models.Service, error) {
	return b.catalog.ListServices(ctx)
}

func (b *LocalBackend) ListSlots(ctx context.Context, date string) ([]models.TimeSlotCapacity, error) {
	return b.catalog.ListSlots(ctx, date)
}

func (b *LocalBackend) GetSiteConfig(ctx context.Context) (map[string]string, error) {
	return b.catalog.GetSiteConfig(ctx)
}

// CreateBooking hands a rejected booking back as a result, the way the
// HTTP API does, so the wizard classifies both paths alike
func (b *LocalBackend) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.TicketResult, error) {
	res, err := b.bookings.CreateBooking(ctx, req, b.userAgent)
	if res != nil {
		return res, nil
	}
	return nil, err
}
