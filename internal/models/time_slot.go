package models

import (
	"errors"
	"time"
)

// TimeSlotCapacity is the capacity row for one time slot on one date.
// JSON field names match the slot read contract used by wizard clients.
type TimeSlotCapacity struct {
	ID          string    `json:"id,omitempty" db:"id"`
	SlotDate    string    `json:"slot_date,omitempty" db:"slot_date"`
	TimeSlot    string    `json:"time_slot" db:"time_slot"`
	BookedCount int       `json:"booked_count" db:"booked_count"`
	MaxCapacity int       `json:"max_capacity" db:"max_capacity"`
	CreatedAt   time.Time `json:"-" db:"created_at"`
	UpdatedAt   time.Time `json:"-" db:"updated_at"`
}

// Available returns the remaining capacity, never negative
func (s TimeSlotCapacity) Available() int {
	if s.MaxCapacity <= s.BookedCount {
		return 0
	}
	return s.MaxCapacity - s.BookedCount
}

// UpsertSlotCapacityRequest is the admin payload for setting a slot's capacity
type UpsertSlotCapacityRequest struct {
	Date        string `json:"date" binding:"required"`
	TimeSlot    string `json:"time_slot" binding:"required"`
	MaxCapacity int    `json:"max_capacity"`
}

// Validate validates the capacity request
func (r *UpsertSlotCapacityRequest) Validate() error {
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return errors.New("date must be formatted as YYYY-MM-DD")
	}
	if _, err := time.Parse(TimeSlotLayout, r.TimeSlot); err != nil {
		return errors.New("time_slot must be formatted as HH:MM")
	}
	if r.MaxCapacity < 0 {
		return errors.New("max_capacity cannot be negative")
	}
	return nil
}
