package wizard

import (
	"context"

	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// Backend is the booking authority the wizard reads from and submits to
type Backend interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	ListSlots(ctx context.Context, date string) ([]models.TimeSlotCapacity, error)
	CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.TicketResult, error)
	GetSiteConfig(ctx context.Context) (map[string]string, error)
}
