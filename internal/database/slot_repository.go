package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// SlotRepository handles database operations for time slot capacity
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository creates a new SlotRepository
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

const slotColumns = `id::text AS id, slot_date::text AS slot_date, time_slot, booked_count, max_capacity, created_at, updated_at`

// ListByDate returns the slot rows configured for a date, ordered by time.
// An empty result is valid; clients fall back to the default slot set.
func (r *SlotRepository) ListByDate(ctx context.Context, date string) ([]models.TimeSlotCapacity, error) {
	slots := []models.TimeSlotCapacity{}
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE slot_date = $1 ORDER BY time_slot ASC`
	if err := r.db.SelectContext(ctx, &slots, query, date); err != nil {
		return nil, fmt.Errorf("failed to list time slots: %w", err)
	}
	return slots, nil
}

// Upsert sets the capacity of a slot, creating the row if needed.
// The booked count is left untouched.
func (r *SlotRepository) Upsert(ctx context.Context, req *models.UpsertSlotCapacityRequest) (*models.TimeSlotCapacity, error) {
	query := `
		INSERT INTO time_slots (slot_date, time_slot, max_capacity)
		VALUES ($1, $2, $3)
		ON CONFLICT (slot_date, time_slot)
		DO UPDATE SET max_capacity = EXCLUDED.max_capacity, updated_at = NOW()
		RETURNING ` + slotColumns

	var slot models.TimeSlotCapacity
	if err := r.db.QueryRowxContext(ctx, query, req.Date, req.TimeSlot, req.MaxCapacity).StructScan(&slot); err != nil {
		return nil, fmt.Errorf("failed to upsert time slot: %w", err)
	}
	return &slot, nil
}
