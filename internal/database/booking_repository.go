package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/wizard"
)

// SlotPolicy describes how slot rows are created on first booking for a
// date nobody has configured
type SlotPolicy struct {
	// DefaultCapacity is the max_capacity given to lazily created rows
	DefaultCapacity int
	// LazyTimes is the slot set created for such a date
	LazyTimes []string
}

// FallbackSlotPolicy creates the fallback slot set clients offer for
// unconfigured dates, with the capacity they assume for it
func FallbackSlotPolicy() SlotPolicy {
	return SlotPolicy{DefaultCapacity: wizard.DefaultSlotCapacity, LazyTimes: wizard.FallbackTimeSlots}
}

func (p SlotPolicy) allowsLazy(timeSlot string) bool {
	for _, t := range p.LazyTimes {
		if t == timeSlot {
			return true
		}
	}
	return false
}

// BookingRepository handles database operations for bookings
type BookingRepository struct {
	db     *sqlx.DB
	policy SlotPolicy
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB, policy SlotPolicy) *BookingRepository {
	return &BookingRepository{db: db, policy: policy}
}

const bookingColumns = `id, ticket_code, user_name, user_email, user_phone, booking_date::text AS booking_date,
	time_slot, num_adults, num_children, num_seniors, guest_services, total_price, status, notes,
	user_agent, created_at, updated_at`

// ============================================================================
// ATOMIC CREATION
// ============================================================================

// Create reserves capacity on the booking's slot and inserts the booking in a
// single transaction. The slot row is locked for the duration, so concurrent
// bookings for the same slot are serialized. Returns *SlotCapacityError when
// the slot cannot hold the party; a ticket code collision surfaces as a
// unique violation (see IsUniqueViolation).
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.reserve(ctx, tx, b.BookingDate, b.TimeSlot, b.TotalGuests()); err != nil {
		return err
	}

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = models.BookingStatusConfirmed
	}

	query := `
		INSERT INTO bookings (
			id, ticket_code, user_name, user_email, user_phone, booking_date, time_slot,
			num_adults, num_children, num_seniors, guest_services, total_price, status,
			notes, user_agent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRowxContext(ctx, query,
		b.ID, b.TicketCode, b.UserName, b.UserEmail, b.UserPhone, b.BookingDate, b.TimeSlot,
		b.NumAdults, b.NumChildren, b.NumSeniors, b.GuestServices, b.TotalPrice, b.Status,
		b.Notes, b.UserAgent,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

// reserve locks the slot row, checks the remaining capacity and increments
// booked_count. Booking a lazy time on a date with no slot rows creates the
// whole lazy set first; dates an admin configured keep only their own slots.
func (r *BookingRepository) reserve(ctx context.Context, tx *sqlx.Tx, date, timeSlot string, party int) error {
	if r.policy.allowsLazy(timeSlot) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO time_slots (slot_date, time_slot, max_capacity)
			SELECT $1::date, t, $3
			FROM unnest($2::text[]) AS t
			WHERE NOT EXISTS (SELECT 1 FROM time_slots WHERE slot_date = $1::date)
			ON CONFLICT (slot_date, time_slot) DO NOTHING
		`, date, pq.Array(r.policy.LazyTimes), r.policy.DefaultCapacity)
		if err != nil {
			return fmt.Errorf("failed to create time slot: %w", err)
		}
	}

	var slot struct {
		ID          string `db:"id"`
		BookedCount int    `db:"booked_count"`
		MaxCapacity int    `db:"max_capacity"`
	}
	err := tx.GetContext(ctx, &slot, `
		SELECT id::text AS id, booked_count, max_capacity
		FROM time_slots
		WHERE slot_date = $1 AND time_slot = $2
		FOR UPDATE
	`, date, timeSlot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &SlotCapacityError{Available: 0}
		}
		return fmt.Errorf("failed to lock time slot: %w", err)
	}

	available := slot.MaxCapacity - slot.BookedCount
	if available < 0 {
		available = 0
	}
	if available < party {
		return &SlotCapacityError{Available: available}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE time_slots
		SET booked_count = booked_count + $1, updated_at = NOW()
		WHERE id = $2
	`, party, slot.ID)
	if err != nil {
		return fmt.Errorf("failed to update slot capacity: %w", err)
	}
	return nil
}

// ============================================================================
// READS
// ============================================================================

// GetByID returns a booking by id
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

// GetByTicketCode returns a booking by its ticket code (case-insensitive)
func (r *BookingRepository) GetByTicketCode(ctx context.Context, code string) (*models.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE ticket_code = $1`, strings.ToUpper(strings.TrimSpace(code)))
}

func (r *BookingRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// List returns bookings matching the filter, newest first
func (r *BookingRepository) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if f.Status != "" {
		args = append(args, f.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(user_name ILIKE $%d OR user_email ILIKE $%d OR ticket_code ILIKE $%d)", n, n, n))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	bookings := []models.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// Stats summarizes all bookings. Guests and revenue exclude cancelled ones.
func (r *BookingRepository) Stats(ctx context.Context) (*models.BookingStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COALESCE(SUM(num_adults + num_children + num_seniors) FILTER (WHERE status <> 'cancelled'), 0) AS total_guests,
			COALESCE(SUM(total_price) FILTER (WHERE status <> 'cancelled'), 0) AS revenue
		FROM bookings
	`
	var stats models.BookingStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}
	return &stats, nil
}

// ============================================================================
// STATUS CHANGES
// ============================================================================

// UpdateStatus changes a booking's status. Cancelling releases the party's
// capacity on its slot; reinstating a cancelled booking reserves it again and
// fails with *SlotCapacityError if the slot has since filled up.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current models.Booking
	err = tx.GetContext(ctx, &current, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if current.Status == status {
		return &current, nil
	}

	party := current.TotalGuests()
	switch {
	case status == models.BookingStatusCancelled:
		_, err = tx.ExecContext(ctx, `
			UPDATE time_slots
			SET booked_count = GREATEST(booked_count - $1, 0), updated_at = NOW()
			WHERE slot_date = $2 AND time_slot = $3
		`, party, current.BookingDate, current.TimeSlot)
		if err != nil {
			return nil, fmt.Errorf("failed to release slot capacity: %w", err)
		}
	case current.Status == models.BookingStatusCancelled:
		if err := r.reserve(ctx, tx, current.BookingDate, current.TimeSlot, party); err != nil {
			return nil, err
		}
	}

	err = tx.QueryRowxContext(ctx, `
		UPDATE bookings SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`, status, id).Scan(&current.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status change: %w", err)
	}
	current.Status = status
	return &current, nil
}
