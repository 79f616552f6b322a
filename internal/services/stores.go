package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// The store interfaces below are satisfied by the repositories in
// internal/database.

// ServiceStore persists the services catalog
type ServiceStore interface {
	List(ctx context.Context) ([]models.Service, error)
	GetByID(ctx context.Context, id string) (*models.Service, error)
	Create(ctx context.Context, s *models.Service) error
	Update(ctx context.Context, s *models.Service) error
	Delete(ctx context.Context, id string) error
}

// SlotStore persists time slot capacity
type SlotStore interface {
	ListByDate(ctx context.Context, date string) ([]models.TimeSlotCapacity, error)
	Upsert(ctx context.Context, req *models.UpsertSlotCapacityRequest) (*models.TimeSlotCapacity, error)
}

// BookingStore persists bookings and reserves slot capacity
type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetByTicketCode(ctx context.Context, code string) (*models.Booking, error)
	List(ctx context.Context, f models.BookingFilter) ([]models.Booking, error)
	Stats(ctx context.Context) (*models.BookingStats, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error)
}

// SiteConfigStore persists site configuration values
type SiteConfigStore interface {
	GetMap() (map[string]string, error)
	Set(key, value string) error
}

// AdminUserStore persists staff accounts
type AdminUserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	Create(ctx context.Context, admin *models.AdminUser) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}
