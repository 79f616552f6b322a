package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thermalsanctuary/booking-backend/internal/database"
	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// AdminBookingService backs the staff booking dashboard
type AdminBookingService struct {
	bookings BookingStore
	logger   *logrus.Logger
}

// NewAdminBookingService creates a new admin booking service
func NewAdminBookingService(bookings BookingStore, logger *logrus.Logger) *AdminBookingService {
	return &AdminBookingService{bookings: bookings, logger: logger}
}

// List returns the filtered bookings together with dashboard stats
func (s *AdminBookingService) List(ctx context.Context, f models.BookingFilter) (*models.BookingListResponse, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}

	bookings, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, err
	}
	stats, err := s.bookings.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &models.BookingListResponse{Bookings: bookings, Stats: *stats}, nil
}

// UpdateStatus changes a booking's status. Cancelling releases capacity.
func (s *AdminBookingService) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateBookingStatusRequest, adminID uuid.UUID) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	booking, err := s.bookings.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		var capErr *database.SlotCapacityError
		switch {
		case errors.Is(err, database.ErrNotFound):
			return nil, ErrNotFound
		case errors.As(err, &capErr):
			return nil, fmt.Errorf("%w: only %d spot(s) left on the booked slot", ErrNoAvailability, capErr.Available)
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"ticket_code": booking.TicketCode,
		"status":      booking.Status,
		"admin_id":    adminID,
	}).Info("Booking status updated")

	return booking, nil
}
