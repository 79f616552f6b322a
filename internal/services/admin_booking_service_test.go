package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thermalsanctuary/booking-backend/internal/database"
	"github.com/thermalsanctuary/booking-backend/internal/models"
)

func TestAdminBookings_List(t *testing.T) {
	store := new(MockBookingStore)
	svc := NewAdminBookingService(store, quietLogger())

	filter := models.BookingFilter{Status: models.BookingStatusConfirmed, Search: "ana"}
	store.On("List", mock.Anything, filter).Return([]models.Booking{{TicketCode: "TS-ABCDEF12"}}, nil)
	store.On("Stats", mock.Anything).Return(&models.BookingStats{Total: 4, Confirmed: 3, Revenue: 900000}, nil)

	resp, err := svc.List(context.Background(), filter)

	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	assert.Equal(t, 3, resp.Stats.Confirmed)
	assert.Equal(t, int64(900000), resp.Stats.Revenue)
}

func TestAdminBookings_ListRejectsUnknownStatus(t *testing.T) {
	store := new(MockBookingStore)
	svc := NewAdminBookingService(store, quietLogger())

	_, err := svc.List(context.Background(), models.BookingFilter{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAdminBookings_UpdateStatus(t *testing.T) {
	id := uuid.New()
	admin := uuid.New()

	t.Run("cancel", func(t *testing.T) {
		store := new(MockBookingStore)
		svc := NewAdminBookingService(store, quietLogger())
		store.On("UpdateStatus", mock.Anything, id, models.BookingStatusCancelled).
			Return(&models.Booking{ID: id, Status: models.BookingStatusCancelled}, nil)

		b, err := svc.UpdateStatus(context.Background(), id, &models.UpdateBookingStatusRequest{Status: models.BookingStatusCancelled}, admin)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, b.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc := NewAdminBookingService(new(MockBookingStore), quietLogger())
		_, err := svc.UpdateStatus(context.Background(), id, &models.UpdateBookingStatusRequest{Status: "lost"}, admin)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		store := new(MockBookingStore)
		svc := NewAdminBookingService(store, quietLogger())
		store.On("UpdateStatus", mock.Anything, id, models.BookingStatusConfirmed).Return(nil, database.ErrNotFound)

		_, err := svc.UpdateStatus(context.Background(), id, &models.UpdateBookingStatusRequest{Status: models.BookingStatusConfirmed}, admin)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("reinstating into a full slot", func(t *testing.T) {
		store := new(MockBookingStore)
		svc := NewAdminBookingService(store, quietLogger())
		store.On("UpdateStatus", mock.Anything, id, models.BookingStatusConfirmed).
			Return(nil, &database.SlotCapacityError{Available: 1})

		_, err := svc.UpdateStatus(context.Background(), id, &models.UpdateBookingStatusRequest{Status: models.BookingStatusConfirmed}, admin)
		assert.ErrorIs(t, err, ErrNoAvailability)
		assert.Contains(t, err.Error(), "only 1 spot(s) left")
	})
}
