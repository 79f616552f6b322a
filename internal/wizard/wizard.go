// Package wizard is the booking wizard engine: guest mix, per-guest
// treatments, date and slot under capacity, contact details, pricing and
// the single atomic submission that yields a ticket.
package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/ticket"
)

// Step is a wizard screen
type Step int

const (
	StepGuests Step = iota + 1
	StepServices
	StepDateTimeContact
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepGuests:
		return "guests"
	case StepServices:
		return "services"
	case StepDateTimeContact:
		return "date_time_contact"
	case StepConfirmed:
		return "confirmed"
	}
	return "unknown"
}

// Contact holds the booker's details as typed
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SlotRequest tags a slot fetch with the date it was issued for
type SlotRequest struct {
	Date string `json:"date"`
	Seq  uint64 `json:"seq"`
}

// State is everything one booking attempt owns. It is plain data so a
// session can be stored and restored between requests.
type State struct {
	Step         Step                 `json:"step"`
	Guests       GuestComposition     `json:"guests"`
	Assignments  Assignments          `json:"assignments"`
	Catalog      Catalog              `json:"catalog"`
	Branding     ticket.Branding      `json:"branding"`
	Month        MonthCursor          `json:"month"`
	SelectedDate string               `json:"selected_date,omitempty"`
	SelectedSlot string               `json:"selected_slot,omitempty"`
	Slots        []SlotInfo           `json:"slots,omitempty"`
	SlotSeq      uint64               `json:"slot_seq"`
	Contact      Contact              `json:"contact"`
	Notes        string               `json:"notes,omitempty"`
	Busy         bool                 `json:"busy"`
	ErrorMessage string               `json:"error_message,omitempty"`
	TicketCode   string               `json:"ticket_code,omitempty"`
	Confirmation *ticket.Confirmation `json:"confirmation,omitempty"`
}

// NewState returns the initial state for a booking starting on today's month
func NewState(today time.Time) State {
	return State{
		Step:        StepGuests,
		Guests:      DefaultComposition(),
		Assignments: Assignments{},
		Month:       CursorFor(today),
	}
}

// Clone returns a deep copy
func (s State) Clone() State {
	out := s
	out.Assignments = s.Assignments.Clone()
	out.Catalog = Catalog{Entries: append([]Service(nil), s.Catalog.Entries...)}
	out.Slots = append([]SlotInfo(nil), s.Slots...)
	if s.Confirmation != nil {
		c := *s.Confirmation
		c.Tiers = append([]ticket.TierLine(nil), s.Confirmation.Tiers...)
		c.Services = append([]ticket.ServiceLine(nil), s.Confirmation.Services...)
		out.Confirmation = &c
	}
	return out
}

// Wizard drives one booking attempt. Methods are safe for concurrent use;
// mutations are ignored while a submission is in flight or after confirmation.
type Wizard struct {
	mu       sync.Mutex
	state    State
	backend  Backend
	now      func() time.Time
	messages Messages
	logger   *logrus.Logger
}

// Option configures a Wizard
type Option func(*Wizard)

// WithClock overrides the wall clock used for the calendar
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// WithMessages overrides the user-visible messages
func WithMessages(m Messages) Option {
	return func(w *Wizard) { w.messages = m }
}

// WithLogger sets the logger used for swallowed read failures
func WithLogger(l *logrus.Logger) Option {
	return func(w *Wizard) { w.logger = l }
}

// New starts a fresh booking attempt
func New(backend Backend, opts ...Option) *Wizard {
	w := newWizard(backend, opts)
	w.state = NewState(w.now())
	return w
}

// Restore resumes a booking attempt from a stored state
func Restore(backend Backend, s State, opts ...Option) *Wizard {
	w := newWizard(backend, opts)
	w.state = s.Clone()
	if w.state.Assignments == nil {
		w.state.Assignments = Assignments{}
	}
	if w.state.Step < StepGuests || w.state.Step > StepConfirmed {
		w.state.Step = StepGuests
	}
	return w
}

func newWizard(backend Backend, opts []Option) *Wizard {
	w := &Wizard{
		backend:  backend,
		now:      time.Now,
		messages: DefaultMessages(),
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Snapshot returns a copy of the current state
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Clone()
}

// mutable reports whether user edits are accepted right now
func (w *Wizard) mutable() bool {
	return !w.state.Busy && w.state.Step != StepConfirmed
}

// ============================================================================
// CATALOG & BRANDING
// ============================================================================

// LoadCatalog fetches the services list. Failures leave the catalog empty.
func (w *Wizard) LoadCatalog(ctx context.Context) {
	records, err := w.backend.ListServices(ctx)
	if err != nil {
		w.logger.WithError(err).Warn("Failed to load services catalog, continuing without treatments")
		records = nil
	}
	w.ApplyCatalog(records)
}

// ApplyCatalog installs a loaded services list. Assignments to services the
// new catalog does not offer are dropped.
func (w *Wizard) ApplyCatalog(records []models.Service) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Catalog = NewCatalog(records)
	for g, ids := range w.state.Assignments {
		for _, id := range ids {
			if _, ok := w.state.Catalog.Treatment(id); !ok {
				w.state.Assignments.Toggle(g, id)
			}
		}
	}
}

// LoadBranding fetches the site configuration used on tickets.
// Failures fall back to text branding.
func (w *Wizard) LoadBranding(ctx context.Context) {
	cfg, err := w.backend.GetSiteConfig(ctx)
	if err != nil {
		w.logger.WithError(err).Warn("Failed to load site config, using text branding")
		cfg = nil
	}
	w.ApplyBranding(cfg)
}

// ApplyBranding installs site configuration values
func (w *Wizard) ApplyBranding(cfg map[string]string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Branding = ticket.Branding{
		LogoURL:   strings.TrimSpace(cfg[models.SiteConfigLogoURL]),
		SiteTitle: strings.TrimSpace(cfg[models.SiteConfigSiteTitle]),
	}
}

// ============================================================================
// GUESTS & SERVICES
// ============================================================================

// SetGuests sets a tier count (clamped at zero) and carries assignments over
// to the new guest list
func (w *Wizard) SetGuests(tier GuestTier, n int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.mutable() {
		return false
	}
	next := w.state.Guests.With(tier, n)
	if next == w.state.Guests {
		return false
	}
	w.state.Assignments = w.state.Assignments.Remap(w.state.Guests, next)
	w.state.Guests = next
	return true
}

// SetAdults sets the adult count
func (w *Wizard) SetAdults(n int) bool { return w.SetGuests(TierAdult, n) }

// SetChildren sets the child count
func (w *Wizard) SetChildren(n int) bool { return w.SetGuests(TierChild, n) }

// SetSeniors sets the senior count
func (w *Wizard) SetSeniors(n int) bool { return w.SetGuests(TierSenior, n) }

// ToggleService adds or removes a treatment for a guest. Unknown guests and
// services that are not treatments are ignored.
func (w *Wizard) ToggleService(guest int, serviceID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.mutable() {
		return false
	}
	if guest < 0 || guest >= w.state.Guests.Total() {
		return false
	}
	if _, ok := w.state.Catalog.Treatment(serviceID); !ok {
		return false
	}
	w.state.Assignments.Toggle(guest, serviceID)
	return true
}

// ============================================================================
// CALENDAR & SLOTS
// ============================================================================

// NextMonth shows the following month
func (w *Wizard) NextMonth() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Month = w.state.Month.Next()
}

// PrevMonth shows the previous month
func (w *Wizard) PrevMonth() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Month = w.state.Month.Prev()
}

// SelectDate picks a day, clearing the slot and the slot list. The returned
// request must accompany the slot rows passed to ApplySlots.
func (w *Wizard) SelectDate(date string) (SlotRequest, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.mutable() {
		return SlotRequest{}, false
	}
	now := w.now()
	day, err := time.ParseInLocation(models.DateLayout, date, now.Location())
	if err != nil || IsPastDay(day, now) {
		return SlotRequest{}, false
	}

	w.state.SelectedDate = date
	w.state.SelectedSlot = ""
	w.state.Slots = nil
	w.state.SlotSeq++
	w.state.Month = CursorFor(day)
	return SlotRequest{Date: date, Seq: w.state.SlotSeq}, true
}

// ApplySlots installs the rows fetched for req. Results for a date that is no
// longer selected, or superseded by a newer fetch, are discarded. A failed
// fetch falls back to the static slot set.
func (w *Wizard) ApplySlots(req SlotRequest, rows []models.TimeSlotCapacity, fetchErr error) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if req.Seq != w.state.SlotSeq || req.Date != w.state.SelectedDate {
		w.logger.WithFields(logrus.Fields{
			"date":        req.Date,
			"selected":    w.state.SelectedDate,
			"request_seq": req.Seq,
			"current_seq": w.state.SlotSeq,
		}).Debug("Discarding stale slot response")
		return false
	}
	if fetchErr != nil {
		w.logger.WithError(fetchErr).WithField("date", req.Date).Warn("Failed to load slots, using fallback slots")
		rows = nil
	}
	w.state.Slots = NormalizeSlots(rows)
	return true
}

// LoadSlots fetches and applies the slots for req
func (w *Wizard) LoadSlots(ctx context.Context, req SlotRequest) bool {
	rows, err := w.backend.ListSlots(ctx, req.Date)
	return w.ApplySlots(req, rows, err)
}

// ChooseDate selects a date and loads its slots
func (w *Wizard) ChooseDate(ctx context.Context, date string) bool {
	req, ok := w.SelectDate(date)
	if !ok {
		return false
	}
	return w.LoadSlots(ctx, req)
}

// SelectSlot picks a time slot on the selected date. Slots lacking room for
// the whole party cannot be selected.
func (w *Wizard) SelectSlot(timeSlot string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.mutable() || w.state.SelectedDate == "" {
		return false
	}
	for _, s := range w.state.Slots {
		if s.TimeSlot != timeSlot {
			continue
		}
		if !s.SelectableFor(w.state.Guests.Total()) {
			return false
		}
		w.state.SelectedSlot = timeSlot
		return true
	}
	return false
}

// ============================================================================
// CONTACT
// ============================================================================

// SetContact replaces the contact details
func (w *Wizard) SetContact(c Contact) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.mutable() {
		return false
	}
	w.state.Contact = c
	return true
}

// SetNotes replaces the free-text notes
func (w *Wizard) SetNotes(notes string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.mutable() {
		return false
	}
	w.state.Notes = notes
	return true
}

// ============================================================================
// NAVIGATION & SUBMISSION
// ============================================================================

// CanAdvance reports whether the current step's requirements are met
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canAdvanceLocked()
}

func (w *Wizard) canAdvanceLocked() bool {
	if w.state.Busy {
		return false
	}
	return stepComplete(&w.state)
}

func stepComplete(s *State) bool {
	switch s.Step {
	case StepGuests:
		return s.Guests.Total() > 0
	case StepServices:
		return true
	case StepDateTimeContact:
		return s.SelectedDate != "" &&
			s.SelectedSlot != "" &&
			strings.TrimSpace(s.Contact.Name) != "" &&
			strings.TrimSpace(s.Contact.Email) != ""
	}
	return false
}

// Advance moves to the next step. On the date/time/contact step it submits
// the booking instead and, on success, lands on the confirmation.
func (w *Wizard) Advance(ctx context.Context) error {
	w.mu.Lock()
	if err := w.checkAdvanceLocked(); err != nil {
		w.mu.Unlock()
		return err
	}
	if w.state.Step < StepDateTimeContact {
		w.state.Step++
		w.state.ErrorMessage = ""
		w.mu.Unlock()
		return nil
	}
	draft := w.beginSubmitLocked()
	w.mu.Unlock()

	completed := false
	defer func() {
		if !completed {
			w.mu.Lock()
			w.state.Busy = false
			w.state.ErrorMessage = w.messages.SubmissionFailed
			w.mu.Unlock()
		}
	}()

	outcome := Submit(ctx, w.backend, draft)
	err := w.CompleteSubmit(outcome)
	completed = true
	return err
}

// BeginSubmit marks the wizard busy and returns the payload to send. It is
// the first half of Advance for callers that run the request themselves;
// CompleteSubmit must follow.
func (w *Wizard) BeginSubmit() (*models.CreateBookingRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkAdvanceLocked(); err != nil {
		return nil, err
	}
	if w.state.Step != StepDateTimeContact {
		return nil, ErrNotReady
	}
	return w.beginSubmitLocked(), nil
}

// CompleteSubmit applies a submission outcome and clears the busy flag
func (w *Wizard) CompleteSubmit(outcome Outcome) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Busy = false

	switch outcome.Kind {
	case OutcomeConfirmed:
		w.state.TicketCode = outcome.TicketCode
		conf := w.confirmationLocked(outcome)
		w.state.Confirmation = &conf
		w.state.Step = StepConfirmed
		w.state.ErrorMessage = ""
	case OutcomeCapacityConflict:
		w.state.ErrorMessage = w.messages.CapacityConflict(outcome.Available)
	default:
		if outcome.Cause != nil {
			w.logger.WithError(outcome.Cause).Warn("Booking submission failed")
		}
		w.state.ErrorMessage = w.messages.SubmissionFailed
	}
	return outcome.Err()
}

func (w *Wizard) checkAdvanceLocked() error {
	if w.state.Busy {
		return ErrBusy
	}
	if w.state.Step == StepConfirmed {
		return ErrConfirmed
	}
	if !stepComplete(&w.state) {
		return ErrNotReady
	}
	return nil
}

func (w *Wizard) beginSubmitLocked() *models.CreateBookingRequest {
	w.state.Busy = true
	w.state.ErrorMessage = ""
	return BuildDraft(&w.state)
}

func (w *Wizard) confirmationLocked(outcome Outcome) ticket.Confirmation {
	s := &w.state
	quote := Price(s.Guests, s.Assignments, s.Catalog)

	tiers := make([]ticket.TierLine, 0, len(quote.Tiers))
	for _, t := range quote.Tiers {
		tiers = append(tiers, ticket.TierLine{Label: t.Label, Count: t.Count, UnitPrice: t.UnitPrice})
	}
	services := make([]ticket.ServiceLine, 0, len(quote.Services))
	for _, l := range quote.Services {
		services = append(services, ticket.ServiceLine{
			GuestIndex:  l.Guest.Ordinal,
			GuestLabel:  l.Guest.Label(),
			ServiceName: l.Title,
			Price:       l.Price,
		})
	}

	return ticket.Confirmation{
		TicketCode: outcome.TicketCode,
		BookingID:  outcome.BookingID,
		Branding:   s.Branding,
		Contact: ticket.Contact{
			Name:  strings.TrimSpace(s.Contact.Name),
			Email: strings.TrimSpace(s.Contact.Email),
			Phone: strings.TrimSpace(s.Contact.Phone),
		},
		Date:     s.SelectedDate,
		TimeSlot: s.SelectedSlot,
		Tiers:    tiers,
		Services: services,
		Total:    quote.Total,
		Notes:    strings.TrimSpace(s.Notes),
	}
}

// Back returns to the previous step and clears any error message
func (w *Wizard) Back() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.mutable() || w.state.Step <= StepGuests {
		return false
	}
	w.state.Step--
	w.state.ErrorMessage = ""
	return true
}

// Reset starts a new booking after a confirmation. The loaded catalog and
// branding are kept.
func (w *Wizard) Reset() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Step != StepConfirmed {
		return false
	}
	next := NewState(w.now())
	next.Catalog = w.state.Catalog
	next.Branding = w.state.Branding
	next.SlotSeq = w.state.SlotSeq + 1
	w.state = next
	return true
}

// ============================================================================
// DERIVED READS
// ============================================================================

// Quote prices the current selection
func (w *Wizard) Quote() Quote {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Price(w.state.Guests, w.state.Assignments, w.state.Catalog)
}

// MonthGrid renders the displayed calendar month
func (w *Wizard) MonthGrid() MonthGrid {
	w.mu.Lock()
	defer w.mu.Unlock()
	return BuildMonth(w.state.Month, w.now(), w.state.SelectedDate)
}

// SlotOptions lists the selected date's slots flagged for the party size
func (w *Wizard) SlotOptions() []SlotOption {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slotOptions(w.state.Slots, w.state.Guests.Total(), w.state.SelectedSlot)
}

// Ticket returns the rendered ticket once confirmed
func (w *Wizard) Ticket() (ticket.Document, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Confirmation == nil {
		return ticket.Document{}, false
	}
	return ticket.Build(*w.state.Confirmation), true
}
