package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/wizard"
)

// ErrSessionBusy is returned when another request holds the session lock
var ErrSessionBusy = errors.New("wizard session is busy")

// WizardSessionConfig holds session lifetimes and the venue timezone
// used to decide which calendar days are past
type WizardSessionConfig struct {
	TTL      time.Duration
	LockTTL  time.Duration
	Location *time.Location
}

// WizardSessionView is what the hosted wizard endpoints return
type WizardSessionView struct {
	ID        string      `json:"id"`
	ExpiresAt time.Time   `json:"expires_at"`
	View      wizard.View `json:"view"`
}

// WizardSessionService hosts wizard sessions for web front-ends. Each
// action restores the stored state, applies the transition and saves it.
type WizardSessionService struct {
	store   SessionStore
	backend *LocalBackend
	cfg     WizardSessionConfig
	now     func() time.Time
	logger  *logrus.Logger
}

// NewWizardSessionService creates a new wizard session service
func NewWizardSessionService(store SessionStore, backend *LocalBackend, cfg WizardSessionConfig, logger *logrus.Logger) *WizardSessionService {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &WizardSessionService{
		store:   store,
		backend: backend,
		cfg:     cfg,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *WizardSessionService) venueNow() time.Time {
	return s.now().In(s.cfg.Location)
}

func (s *WizardSessionService) options() []wizard.Option {
	return []wizard.Option{wizard.WithClock(s.venueNow), wizard.WithLogger(s.logger)}
}

// Create starts a session with the catalog and branding loaded
func (s *WizardSessionService) Create(ctx context.Context) (*WizardSessionView, error) {
	w := wizard.New(s.backend, s.options()...)
	w.LoadCatalog(ctx)
	w.LoadBranding(ctx)

	sess := &WizardSession{
		ID:        uuid.New().String(),
		State:     w.Snapshot(),
		CreatedAt: s.now(),
	}
	if err := s.store.Save(ctx, sess, s.cfg.TTL); err != nil {
		return nil, err
	}

	s.logger.WithField("session_id", sess.ID).Debug("Wizard session created")
	return &WizardSessionView{ID: sess.ID, ExpiresAt: sess.ExpiresAt, View: w.View()}, nil
}

// Get returns the current view of a session
func (s *WizardSessionService) Get(ctx context.Context, id string) (*WizardSessionView, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	w := wizard.Restore(s.backend, sess.State, s.options()...)
	return &WizardSessionView{ID: sess.ID, ExpiresAt: sess.ExpiresAt, View: w.View()}, nil
}

// Delete abandons a session
func (s *WizardSessionService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Apply runs one action against a session. Actions the wizard ignores
// (busy, confirmed, invalid input) leave the state unchanged; a rejected
// booking is reported through the view's error message.
func (s *WizardSessionService) Apply(ctx context.Context, id string, action *models.WizardActionRequest, userAgent string) (*WizardSessionView, error) {
	if err := action.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	token, locked, err := s.store.Lock(ctx, id, s.cfg.LockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrSessionBusy
	}
	defer func() {
		if err := s.store.Unlock(context.WithoutCancel(ctx), id, token); err != nil {
			s.logger.WithError(err).WithField("session_id", id).Warn("Failed to release wizard session lock")
		}
	}()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	w := wizard.Restore(s.backend.WithUserAgent(userAgent), sess.State, s.options()...)
	if err := s.dispatch(ctx, w, action); err != nil {
		return nil, err
	}

	sess.State = w.Snapshot()
	if err := s.store.Save(ctx, sess, s.cfg.TTL); err != nil {
		return nil, err
	}

	return &WizardSessionView{ID: sess.ID, ExpiresAt: sess.ExpiresAt, View: w.View()}, nil
}

func (s *WizardSessionService) dispatch(ctx context.Context, w *wizard.Wizard, action *models.WizardActionRequest) error {
	switch action.Type {
	case models.WizardActionSetGuests:
		tier, err := wizard.ParseGuestTier(action.Tier)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		w.SetGuests(tier, action.Count)
	case models.WizardActionToggleService:
		w.ToggleService(action.GuestIndex, action.ServiceID)
	case models.WizardActionSelectDate:
		w.ChooseDate(ctx, action.Date)
	case models.WizardActionSelectSlot:
		w.SelectSlot(action.TimeSlot)
	case models.WizardActionSetContact:
		if w.SetContact(wizard.Contact{Name: action.Name, Email: action.Email, Phone: action.Phone}) {
			w.SetNotes(action.Notes)
		}
	case models.WizardActionNext:
		return s.advance(ctx, w)
	case models.WizardActionBack:
		w.Back()
	case models.WizardActionReset:
		w.Reset()
	case models.WizardActionMonthNext:
		w.NextMonth()
	case models.WizardActionMonthPrev:
		w.PrevMonth()
	}
	return nil
}

func (s *WizardSessionService) advance(ctx context.Context, w *wizard.Wizard) error {
	err := w.Advance(ctx)
	var capErr *wizard.CapacityConflictError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wizard.ErrNotReady):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.As(err, &capErr), errors.Is(err, wizard.ErrSubmissionFailed):
		// surfaced through the view's error message
		return nil
	case errors.Is(err, wizard.ErrBusy), errors.Is(err, wizard.ErrConfirmed):
		return nil
	}
	return err
}

// Sweep removes expired sessions from the store
func (s *WizardSessionService) Sweep(ctx context.Context) (int, error) {
	return s.store.Sweep(ctx, s.now())
}
