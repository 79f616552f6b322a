package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// OutcomeKind classifies the result of a booking submission
type OutcomeKind int

const (
	OutcomeFailed OutcomeKind = iota
	OutcomeConfirmed
	OutcomeCapacityConflict
)

// Outcome is a submission result reduced to what the wizard acts on
type Outcome struct {
	Kind       OutcomeKind
	TicketCode string
	BookingID  string
	Available  int
	// Cause keeps the underlying failure for logging; it is never shown to guests
	Cause error
}

// Err converts the outcome into the wizard's error taxonomy
func (o Outcome) Err() error {
	switch o.Kind {
	case OutcomeConfirmed:
		return nil
	case OutcomeCapacityConflict:
		return &CapacityConflictError{Available: o.Available}
	}
	return ErrSubmissionFailed
}

// BuildDraft assembles the booking payload from the state. Service entries
// are flattened in guest order; ids the catalog does not offer are dropped.
func BuildDraft(s *State) *models.CreateBookingRequest {
	quote := Price(s.Guests, s.Assignments, s.Catalog)

	services := make([]models.GuestService, 0, len(quote.Services))
	for _, line := range quote.Services {
		services = append(services, models.GuestService{
			GuestIndex:  line.Guest.Ordinal,
			ServiceID:   line.ServiceID,
			ServiceName: line.Title,
			Price:       line.Price,
		})
	}

	return &models.CreateBookingRequest{
		Name:          strings.TrimSpace(s.Contact.Name),
		Email:         strings.TrimSpace(s.Contact.Email),
		Phone:         strings.TrimSpace(s.Contact.Phone),
		Date:          s.SelectedDate,
		TimeSlot:      s.SelectedSlot,
		Adults:        s.Guests.Adults,
		Children:      s.Guests.Children,
		Seniors:       s.Guests.Seniors,
		GuestServices: services,
		TotalPrice:    quote.Total,
		Notes:         strings.TrimSpace(s.Notes),
	}
}

// Classify interprets a booking creation response
func Classify(res *models.TicketResult, err error) Outcome {
	if err != nil {
		return Outcome{Kind: OutcomeFailed, Cause: err}
	}
	if res == nil {
		return Outcome{Kind: OutcomeFailed, Cause: ErrSubmissionFailed}
	}
	if res.Success && res.TicketCode != "" {
		return Outcome{Kind: OutcomeConfirmed, TicketCode: res.TicketCode, BookingID: res.BookingID}
	}
	if res.Error == models.BookingErrorNoAvailability {
		available := 0
		if res.Available != nil && *res.Available > 0 {
			available = *res.Available
		}
		return Outcome{Kind: OutcomeCapacityConflict, Available: available}
	}
	return Outcome{Kind: OutcomeFailed, Cause: fmt.Errorf("%w: %s %s", ErrSubmissionFailed, res.Error, res.Message)}
}

// Submit sends the draft once. There is no retry.
func Submit(ctx context.Context, backend Backend, draft *models.CreateBookingRequest) Outcome {
	res, err := backend.CreateBooking(ctx, draft)
	return Classify(res, err)
}
