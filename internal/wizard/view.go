package wizard

import (
	"github.com/thermalsanctuary/booking-backend/internal/ticket"
)

// GuestView is one guest row of the services step
type GuestView struct {
	Ordinal      int      `json:"ordinal"`
	Label        string   `json:"label"`
	Tier         string   `json:"tier"`
	Services     []string `json:"services"`
	Subtotal     int64    `json:"subtotal"`
	SubtotalText string   `json:"subtotal_text"`
}

// View is a read-only projection of the wizard for rendering
type View struct {
	Step         int              `json:"step"`
	StepName     string           `json:"step_name"`
	Guests       GuestComposition `json:"guests"`
	TotalGuests  int              `json:"total_guests"`
	GuestList    []GuestView      `json:"guest_list"`
	Treatments   []Treatment      `json:"treatments"`
	Quote        Quote            `json:"quote"`
	TotalText    string           `json:"total_text"`
	Calendar     MonthGrid        `json:"calendar"`
	Weekdays     []string         `json:"weekdays"`
	SelectedDate string           `json:"selected_date,omitempty"`
	SelectedSlot string           `json:"selected_slot,omitempty"`
	Slots        []SlotOption     `json:"slots"`
	Contact      Contact          `json:"contact"`
	Notes        string           `json:"notes,omitempty"`
	CanAdvance   bool             `json:"can_advance"`
	Busy         bool             `json:"busy"`
	Error        string           `json:"error,omitempty"`
	TicketCode   string           `json:"ticket_code,omitempty"`
	Ticket       *ticket.Document `json:"ticket,omitempty"`
}

// View projects the current state for rendering
func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := &w.state

	quote := Price(s.Guests, s.Assignments, s.Catalog)
	guests := make([]GuestView, 0, s.Guests.Total())
	for _, id := range s.Guests.Identities() {
		sub := s.Assignments.SubtotalFor(id.Ordinal, s.Catalog)
		guests = append(guests, GuestView{
			Ordinal:      id.Ordinal,
			Label:        id.Label(),
			Tier:         id.Tier.String(),
			Services:     s.Assignments.Services(id.Ordinal),
			Subtotal:     sub,
			SubtotalText: ticket.FormatCOP(sub),
		})
	}

	v := View{
		Step:         int(s.Step),
		StepName:     s.Step.String(),
		Guests:       s.Guests,
		TotalGuests:  s.Guests.Total(),
		GuestList:    guests,
		Treatments:   s.Catalog.Treatments(),
		Quote:        quote,
		TotalText:    quote.TotalText(),
		Calendar:     BuildMonth(s.Month, w.now(), s.SelectedDate),
		Weekdays:     WeekdayHeaders,
		SelectedDate: s.SelectedDate,
		SelectedSlot: s.SelectedSlot,
		Slots:        slotOptions(s.Slots, s.Guests.Total(), s.SelectedSlot),
		Contact:      s.Contact,
		Notes:        s.Notes,
		CanAdvance:   w.canAdvanceLocked(),
		Busy:         s.Busy,
		Error:        s.ErrorMessage,
		TicketCode:   s.TicketCode,
	}
	if s.Confirmation != nil {
		doc := ticket.Build(*s.Confirmation)
		v.Ticket = &doc
	}
	return v
}
