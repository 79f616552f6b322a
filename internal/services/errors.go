package services

import "errors"

var (
	// ErrInvalidBooking is returned for malformed booking requests
	ErrInvalidBooking = errors.New("invalid booking request")

	// ErrPriceMismatch is returned when the submitted total differs from the server's
	ErrPriceMismatch = errors.New("submitted total does not match current prices")

	// ErrNoAvailability is returned when the slot cannot hold the party
	ErrNoAvailability = errors.New("not enough availability for the selected time")

	// ErrBookingFailed covers storage failures during booking creation
	ErrBookingFailed = errors.New("booking could not be created")

	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed admin requests
	ErrInvalidInput = errors.New("invalid input")
)
