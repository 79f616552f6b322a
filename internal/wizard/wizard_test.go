package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// MockBackend is a mock implementation of Backend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListServices(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *MockBackend) ListSlots(ctx context.Context, date string) ([]models.TimeSlotCapacity, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TimeSlotCapacity), args.Error(1)
}

func (m *MockBackend) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.TicketResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketResult), args.Error(1)
}

func (m *MockBackend) GetSiteConfig(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

var testNow = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

const nextWeekday = "2026-03-11"

func catalogRecords() []models.Service {
	return []models.Service{
		{ID: "mud", Title: "Mud Ritual", Price: 150000, Category: models.ServiceCategoryTreatment},
		{ID: "massage", Title: "Hot Stone Massage", Price: 120000, Category: models.ServiceCategoryTreatment},
		{ID: "cabin", Title: "Forest Cabin", Price: 400000, Category: models.ServiceCategoryLodging},
	}
}

func newTestWizard(t *testing.T, backend *MockBackend) *Wizard {
	t.Helper()
	w := New(backend, WithClock(func() time.Time { return testNow }))
	w.ApplyCatalog(catalogRecords())
	return w
}

// readyForSubmit walks a wizard to step 3 with a date, slot and contact
func readyForSubmit(t *testing.T, w *Wizard, backend *MockBackend) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, w.Advance(ctx))
	require.NoError(t, w.Advance(ctx))

	backend.On("ListSlots", mock.Anything, nextWeekday).Return([]models.TimeSlotCapacity{
		{TimeSlot: "10:00", BookedCount: 0, MaxCapacity: 10},
	}, nil).Once()
	require.True(t, w.ChooseDate(ctx, nextWeekday))
	require.True(t, w.SelectSlot("10:00"))
	require.True(t, w.SetContact(Contact{Name: "Ana Ruiz", Email: "ana@example.com"}))
	require.True(t, w.CanAdvance())
}

func TestCanAdvance_GuestsStep(t *testing.T) {
	w := newTestWizard(t, &MockBackend{})

	for _, g := range []GuestComposition{{}, {Adults: 1}, {Children: 1}, {Seniors: 2}, {Adults: 0, Children: 0, Seniors: 0}} {
		w.SetAdults(g.Adults)
		w.SetChildren(g.Children)
		w.SetSeniors(g.Seniors)
		assert.Equal(t, g.Total() >= 1, w.CanAdvance(), "guests %+v", g)
	}

	w.SetAdults(0)
	w.SetChildren(0)
	w.SetSeniors(0)
	assert.ErrorIs(t, w.Advance(context.Background()), ErrNotReady)
	assert.Equal(t, StepGuests, w.Snapshot().Step)
}

func TestCanAdvance_ContactStep(t *testing.T) {
	backend := &MockBackend{}
	w := newTestWizard(t, backend)
	readyForSubmit(t, w, backend)

	w.SetContact(Contact{Name: "   ", Email: "ana@example.com"})
	assert.False(t, w.CanAdvance(), "blank name")

	w.SetContact(Contact{Name: "Ana", Email: " "})
	assert.False(t, w.CanAdvance(), "blank email")

	w.SetContact(Contact{Name: "Ana", Email: "ana@example.com"})
	assert.True(t, w.CanAdvance())
}

func TestSelectDate_ClearsSlot(t *testing.T) {
	backend := &MockBackend{}
	w := newTestWizard(t, backend)
	readyForSubmit(t, w, backend)
	require.Equal(t, "10:00", w.Snapshot().SelectedSlot)

	_, ok := w.SelectDate("2026-03-12")
	require.True(t, ok)

	s := w.Snapshot()
	assert.Empty(t, s.SelectedSlot)
	assert.Empty(t, s.Slots)
	assert.Equal(t, "2026-03-12", s.SelectedDate)
	assert.False(t, w.CanAdvance())
}

func TestSelectDate_RejectsPastDays(t *testing.T) {
	w := newTestWizard(t, &MockBackend{})

	_, ok := w.SelectDate("2026-03-09")
	assert.False(t, ok)
	_, ok = w.SelectDate("03/11/2026")
	assert.False(t, ok)
	_, ok = w.SelectDate("2026-03-10")
	assert.True(t, ok, "today is bookable")
}

func TestSelectSlot_FullSlotIsNoop(t *testing.T) {
	w := newTestWizard(t, &MockBackend{})
	w.SetAdults(3)

	req, ok := w.SelectDate(nextWeekday)
	require.True(t, ok)
	require.True(t, w.ApplySlots(req, []models.TimeSlotCapacity{
		{TimeSlot: "09:00", BookedCount: 8, MaxCapacity: 10},
		{TimeSlot: "11:00", BookedCount: 7, MaxCapacity: 10},
	}, nil))

	assert.False(t, w.SelectSlot("09:00"))
	assert.Empty(t, w.Snapshot().SelectedSlot)
	assert.False(t, w.SelectSlot("18:00"), "unknown slot")

	assert.True(t, w.SelectSlot("11:00"))

	// a larger party later does not undo the selection
	w.SetAdults(5)
	assert.Equal(t, "11:00", w.Snapshot().SelectedSlot)
}

func TestApplySlots_DiscardsStaleResponses(t *testing.T) {
	w := newTestWizard(t, &MockBackend{})

	first, ok := w.SelectDate("2026-03-11")
	require.True(t, ok)
	second, ok := w.SelectDate("2026-03-12")
	require.True(t, ok)

	assert.True(t, w.ApplySlots(second, []models.TimeSlotCapacity{{TimeSlot: "16:00", MaxCapacity: 4}}, nil))
	assert.False(t, w.ApplySlots(first, []models.TimeSlotCapacity{{TimeSlot: "09:00", MaxCapacity: 4}}, nil))

	s := w.Snapshot()
	require.Len(t, s.Slots, 1)
	assert.Equal(t, "16:00", s.Slots[0].TimeSlot)

	// reselecting the same date also supersedes the older fetch
	third, _ := w.SelectDate("2026-03-12")
	assert.False(t, w.ApplySlots(second, nil, nil))
	assert.True(t, w.ApplySlots(third, nil, errors.New("timeout")))
	assert.Len(t, w.Snapshot().Slots, len(FallbackTimeSlots))
}

func TestToggleService(t *testing.T) {
	w := newTestWizard(t, &MockBackend{})
	w.SetAdults(2)

	assert.True(t, w.ToggleService(1, "mud"))
	assert.False(t, w.ToggleService(1, "cabin"), "lodging is not a treatment")
	assert.False(t, w.ToggleService(2, "mud"), "guest out of range")
	assert.False(t, w.ToggleService(0, "unknown"))

	w.SetAdults(1)
	assert.Empty(t, w.Snapshot().Assignments, "removed guest loses their services")
}

func TestScenario_ConfirmedBooking(t *testing.T) {
	backend := &MockBackend{}
	w := newTestWizard(t, backend)
	w.SetAdults(2)
	readyForSubmit(t, w, backend)

	backend.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req *models.CreateBookingRequest) bool {
		return req.TotalPrice == 150000 &&
			req.Adults == 2 &&
			req.Date == nextWeekday &&
			req.TimeSlot == "10:00" &&
			req.Name == "Ana Ruiz" &&
			len(req.GuestServices) == 0
	})).Return(&models.TicketResult{Success: true, TicketCode: "ABC123", BookingID: "b-1"}, nil).Once()

	require.NoError(t, w.Advance(context.Background()))

	s := w.Snapshot()
	assert.Equal(t, StepConfirmed, s.Step)
	assert.Equal(t, "ABC123", s.TicketCode)
	assert.False(t, s.Busy)
	require.NotNil(t, s.Confirmation)
	assert.Equal(t, int64(150000), s.Confirmation.Total)

	doc, ok := w.Ticket()
	require.True(t, ok)
	assert.Equal(t, "ABC123", doc.TicketCode)

	assert.ErrorIs(t, w.Advance(context.Background()), ErrConfirmed)
	assert.False(t, w.Back(), "confirmation is terminal")
	backend.AssertExpectations(t)
}

func TestScenario_NoAvailability(t *testing.T) {
	backend := &MockBackend{}
	w := newTestWizard(t, backend)
	w.SetAdults(2)
	readyForSubmit(t, w, backend)

	one := 1
	backend.On("CreateBooking", mock.Anything, mock.Anything).
		Return(&models.TicketResult{Success: false, Error: models.BookingErrorNoAvailability, Available: &one}, nil).Once()

	err := w.Advance(context.Background())

	var conflict *CapacityConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 1, conflict.Available)

	s := w.Snapshot()
	assert.Equal(t, StepDateTimeContact, s.Step)
	assert.Contains(t, s.ErrorMessage, "1")
	assert.False(t, s.Busy)
	assert.True(t, w.CanAdvance(), "the guest may retry")
}

func TestScenario_MixedPartyPayload(t *testing.T) {
	backend := &MockBackend{}
	w := newTestWizard(t, backend)
	w.SetChildren(1)
	require.True(t, w.ToggleService(0, "mud"))
	readyForSubmit(t, w, backend)

	var sent *models.CreateBookingRequest
	backend.On("CreateBooking", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*models.CreateBookingRequest) }).
		Return(&models.TicketResult{Success: true, TicketCode: "XYZ"}, nil).Once()

	require.NoError(t, w.Advance(context.Background()))

	require.NotNil(t, sent)
	assert.Equal(t, int64(265000), sent.TotalPrice)
	assert.Equal(t, []models.GuestService{
		{GuestIndex: 0, ServiceID: "mud", ServiceName: "Mud Ritual", Price: 150000},
	}, sent.GuestServices)
}

func TestSubmissionFailures(t *testing.T) {
	cases := []struct {
		name   string
		result *models.TicketResult
		err    error
	}{
		{"Transport error", nil, errors.New("connection refused")},
		{"Success without ticket", &models.TicketResult{Success: true}, nil},
		{"Other error code", &models.TicketResult{Error: models.BookingErrorInternal}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &MockBackend{}
			w := newTestWizard(t, backend)
			readyForSubmit(t, w, backend)

			backend.On("CreateBooking", mock.Anything, mock.Anything).Return(tc.result, tc.err).Once()

			err := w.Advance(context.Background())
			assert.ErrorIs(t, err, ErrSubmissionFailed)

			s := w.Snapshot()
			assert.Equal(t, StepDateTimeContact, s.Step)
			assert.Equal(t, DefaultMessages().SubmissionFailed, s.ErrorMessage)
			assert.False(t, s.Busy)
			assert.False(t, strings.Contains(s.ErrorMessage, "refused"), "no transport detail reaches the guest")
			backend.AssertNumberOfCalls(t, "CreateBooking", 1)
		})
	}
}

func TestBusyGuard(t *testing.T) {
	backend := &MockBackend{}
	w := newTestWizard(t, backend)
	readyForSubmit(t, w, backend)

	draft, err := w.BeginSubmit()
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.True(t, w.Snapshot().Busy)

	assert.ErrorIs(t, w.Advance(context.Background()), ErrBusy)
	_, err = w.BeginSubmit()
	assert.ErrorIs(t, err, ErrBusy)
	assert.False(t, w.CanAdvance())
	assert.False(t, w.SetAdults(4), "edits are ignored while submitting")
	assert.False(t, w.Back())

	assert.Error(t, w.CompleteSubmit(Outcome{Kind: OutcomeFailed}))
	assert.False(t, w.Snapshot().Busy)
	backend.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBusyClearedWhenBackendPanics(t *testing.T) {
	backend := &MockBackend{}
	w := newTestWizard(t, backend)
	readyForSubmit(t, w, backend)

	backend.On("CreateBooking", mock.Anything, mock.Anything).Run(func(mock.Arguments) { panic("boom") })

	assert.Panics(t, func() { _ = w.Advance(context.Background()) })
	assert.False(t, w.Snapshot().Busy)
}

func TestBack_ClearsError(t *testing.T) {
	backend := &MockBackend{}
	w := newTestWizard(t, backend)
	readyForSubmit(t, w, backend)
	backend.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, errors.New("down")).Once()
	_ = w.Advance(context.Background())
	require.NotEmpty(t, w.Snapshot().ErrorMessage)

	assert.True(t, w.Back())
	s := w.Snapshot()
	assert.Equal(t, StepServices, s.Step)
	assert.Empty(t, s.ErrorMessage)

	assert.True(t, w.Back())
	assert.False(t, w.Back(), "already on the first step")
}

func TestReset_AfterConfirmation(t *testing.T) {
	backend := &MockBackend{}
	w := newTestWizard(t, backend)
	w.SetAdults(2)
	w.SetSeniors(1)
	w.ToggleService(2, "massage")

	assert.False(t, w.Reset(), "reset is only offered after confirmation")

	readyForSubmit(t, w, backend)
	w.SetNotes("quiet room please")
	backend.On("CreateBooking", mock.Anything, mock.Anything).
		Return(&models.TicketResult{Success: true, TicketCode: "R-1"}, nil).Once()
	require.NoError(t, w.Advance(context.Background()))

	require.True(t, w.Reset())

	s := w.Snapshot()
	assert.Equal(t, StepGuests, s.Step)
	assert.Equal(t, GuestComposition{Adults: 1}, s.Guests)
	assert.Empty(t, s.Assignments)
	assert.Empty(t, s.SelectedDate)
	assert.Empty(t, s.SelectedSlot)
	assert.Equal(t, Contact{}, s.Contact)
	assert.Empty(t, s.Notes)
	assert.Empty(t, s.TicketCode)
	assert.Nil(t, s.Confirmation)
	assert.Len(t, s.Catalog.Treatments(), 2, "catalog survives a reset")
}

func TestLoadCatalogAndBranding_DegradeOnFailure(t *testing.T) {
	backend := &MockBackend{}
	backend.On("ListServices", mock.Anything).Return(nil, errors.New("offline"))
	backend.On("GetSiteConfig", mock.Anything).Return(nil, errors.New("offline"))

	w := New(backend, WithClock(func() time.Time { return testNow }))
	w.LoadCatalog(context.Background())
	w.LoadBranding(context.Background())

	v := w.View()
	assert.Empty(t, v.Treatments)
	assert.True(t, v.CanAdvance)
	assert.Equal(t, "Thermal Sanctuary", w.Snapshot().Branding.Title())
}

func TestRestore_RoundTripsState(t *testing.T) {
	backend := &MockBackend{}
	w := newTestWizard(t, backend)
	w.SetAdults(2)
	w.ToggleService(1, "mud")

	restored := Restore(backend, w.Snapshot(), WithClock(func() time.Time { return testNow }))
	assert.Equal(t, w.Quote(), restored.Quote())

	restored.ToggleService(0, "mud")
	assert.False(t, w.Snapshot().Assignments.Has(0, "mud"), "restored wizard does not share state")
}
