package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DateLayout is the ISO date format used for booking dates and slot lookups
	DateLayout = "2006-01-02"
	// TimeSlotLayout is the 24h clock format of a time slot label
	TimeSlotLayout = "15:04"
)

// ============================================================================
// BOOKING STATUS & RESULT CODES
// ============================================================================

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// IsValid reports whether s is a known booking status
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusPending, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Error codes carried in TicketResult.Error
const (
	BookingErrorNoAvailability = "NO_AVAILABILITY"
	BookingErrorInvalidRequest = "INVALID_REQUEST"
	BookingErrorPriceMismatch  = "PRICE_MISMATCH"
	BookingErrorInternal       = "INTERNAL_ERROR"
)

// ============================================================================
// BOOKING RECORD
// ============================================================================

// GuestService is one add-on service assigned to one guest of a booking
type GuestService struct {
	GuestIndex  int    `json:"guestIndex"`
	ServiceID   string `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	Price       int64  `json:"price"`
}

// GuestServiceList is stored as a JSONB column
type GuestServiceList []GuestService

// Value implements the driver.Valuer interface
func (l GuestServiceList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *GuestServiceList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported guest_services type %T", src)
	}
	return json.Unmarshal(data, l)
}

// Booking is a persisted reservation
type Booking struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	TicketCode    string           `json:"ticket_code" db:"ticket_code"`
	UserName      string           `json:"user_name" db:"user_name"`
	UserEmail     string           `json:"user_email" db:"user_email"`
	UserPhone     *string          `json:"user_phone,omitempty" db:"user_phone"`
	BookingDate   string           `json:"booking_date" db:"booking_date"`
	TimeSlot      string           `json:"time_slot" db:"time_slot"`
	NumAdults     int              `json:"num_adults" db:"num_adults"`
	NumChildren   int              `json:"num_children" db:"num_children"`
	NumSeniors    int              `json:"num_seniors" db:"num_seniors"`
	GuestServices GuestServiceList `json:"guest_services" db:"guest_services"`
	TotalPrice    int64            `json:"total_price" db:"total_price"`
	Status        BookingStatus    `json:"status" db:"status"`
	Notes         *string          `json:"notes,omitempty" db:"notes"`
	UserAgent     *string          `json:"-" db:"user_agent"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// TotalGuests returns the party size of the booking
func (b *Booking) TotalGuests() int {
	return b.NumAdults + b.NumChildren + b.NumSeniors
}

// GenerateTicketCode generates a human-presentable ticket code
// Format: TS-XXXXXXXX (8 uppercase hex characters)
func GenerateTicketCode() string {
	id := uuid.New()
	return "TS-" + strings.ToUpper(id.String()[0:8])
}

// ============================================================================
// REQUEST / RESPONSE TYPES
// ============================================================================

// CreateBookingRequest is the atomic booking creation payload
type CreateBookingRequest struct {
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Date          string         `json:"date"`
	TimeSlot      string         `json:"time_slot"`
	Adults        int            `json:"adults"`
	Children      int            `json:"children"`
	Seniors       int            `json:"seniors"`
	GuestServices []GuestService `json:"guest_services"`
	TotalPrice    int64          `json:"total_price"`
	Notes         string         `json:"notes"`
}

// TotalGuests returns the party size requested
func (r *CreateBookingRequest) TotalGuests() int {
	return r.Adults + r.Children + r.Seniors
}

// Validate validates the booking creation request. Email and phone are
// left to pkg/validator, which also normalizes them.
func (r *CreateBookingRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return errors.New("date must be formatted as YYYY-MM-DD")
	}
	if _, err := time.Parse(TimeSlotLayout, r.TimeSlot); err != nil {
		return errors.New("time_slot must be formatted as HH:MM")
	}
	if r.Adults < 0 || r.Children < 0 || r.Seniors < 0 {
		return errors.New("guest counts cannot be negative")
	}
	if r.TotalGuests() < 1 {
		return errors.New("at least one guest is required")
	}
	total := r.TotalGuests()
	for _, gs := range r.GuestServices {
		if gs.GuestIndex < 0 || gs.GuestIndex >= total {
			return fmt.Errorf("guest service references unknown guest %d", gs.GuestIndex)
		}
		if gs.ServiceID == "" {
			return errors.New("guest service is missing serviceId")
		}
	}
	if r.TotalPrice < 0 {
		return errors.New("total_price cannot be negative")
	}
	return nil
}

// TicketResult is the outcome of an atomic booking creation
type TicketResult struct {
	Success    bool   `json:"success"`
	TicketCode string `json:"ticket_code,omitempty"`
	BookingID  string `json:"booking_id,omitempty"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
	Available  *int   `json:"available,omitempty"`
}

// UpdateBookingStatusRequest is the admin payload for changing a booking's status
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
}

// Validate validates the status request
func (r *UpdateBookingStatusRequest) Validate() error {
	if !r.Status.IsValid() {
		return errors.New("status must be confirmed, pending, cancelled or completed")
	}
	return nil
}

// BookingFilter narrows the admin booking list
type BookingFilter struct {
	Status BookingStatus
	Search string
	Limit  int
	Offset int
}

// BookingStats summarizes bookings for the admin dashboard.
// Guests and revenue exclude cancelled bookings.
type BookingStats struct {
	Total       int   `json:"total" db:"total"`
	Confirmed   int   `json:"confirmed" db:"confirmed"`
	Pending     int   `json:"pending" db:"pending"`
	TotalGuests int   `json:"total_guests" db:"total_guests"`
	Revenue     int64 `json:"revenue" db:"revenue"`
}

// BookingListResponse is returned by the admin booking list endpoint
type BookingListResponse struct {
	Bookings []Booking    `json:"bookings"`
	Stats    BookingStats `json:"stats"`
}
