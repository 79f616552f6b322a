package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thermalsanctuary/booking-backend/internal/database"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/ticket"
	"github.com/thermalsanctuary/booking-backend/internal/utils"
	"github.com/thermalsanctuary/booking-backend/internal/wizard"
	"github.com/thermalsanctuary/booking-backend/pkg/validator"
)

// BookingService is the booking authority: it validates a submission,
// recomputes its price and reserves capacity atomically
type BookingService struct {
	bookings     BookingStore
	services     ServiceStore
	siteConfig   SiteConfigStore
	phone        *validator.PhoneValidator
	codeAttempts int
	location     *time.Location
	now          func() time.Time
	newCode      func() string
	logger       *logrus.Logger
}

// BookingServiceConfig holds the tunables of the booking authority
type BookingServiceConfig struct {
	TicketCodeAttempts int
	Location           *time.Location
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings BookingStore,
	services ServiceStore,
	siteConfig SiteConfigStore,
	cfg BookingServiceConfig,
	logger *logrus.Logger,
) *BookingService {
	if cfg.TicketCodeAttempts < 1 {
		cfg.TicketCodeAttempts = 1
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &BookingService{
		bookings:     bookings,
		services:     services,
		siteConfig:   siteConfig,
		phone:        validator.NewPhoneValidator(),
		codeAttempts: cfg.TicketCodeAttempts,
		location:     cfg.Location,
		now:          time.Now,
		newCode:      models.GenerateTicketCode,
		logger:       logger,
	}
}

// ============================================================================
// CREATE
// ============================================================================

// CreateBooking runs the atomic booking protocol. The returned result is
// always non-nil; err classifies failures (ErrInvalidBooking,
// ErrPriceMismatch, ErrNoAvailability, ErrBookingFailed).
func (s *BookingService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest, userAgent string) (*models.TicketResult, error) {
	logger := s.logger.WithFields(logrus.Fields{
		"date":      req.Date,
		"time_slot": req.TimeSlot,
		"guests":    req.TotalGuests(),
	})

	contact, err := s.normalizeContact(req)
	if err != nil {
		return invalidResult(err), fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}
	if err := req.Validate(); err != nil {
		return invalidResult(err), fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}
	if s.isPastDate(req.Date) {
		err := errors.New("date is in the past")
		return invalidResult(err), fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}

	records, err := s.services.List(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to load catalog for pricing")
		return internalResult(), fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	quote, err := quoteRequest(req, wizard.NewCatalog(records))
	if err != nil {
		return invalidResult(err), fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}
	if quote.Total != req.TotalPrice {
		logger.WithFields(logrus.Fields{
			"submitted": req.TotalPrice,
			"expected":  quote.Total,
		}).Warn("Booking total does not match current prices")
		return &models.TicketResult{
			Success: false,
			Error:   models.BookingErrorPriceMismatch,
			Message: fmt.Sprintf("Prices have changed. The current total is %s.", ticket.FormatCOP(quote.Total)),
		}, ErrPriceMismatch
	}

	booking := &models.Booking{
		UserName:      contact.Name,
		UserEmail:     contact.Email,
		UserPhone:     optional(contact.Phone),
		BookingDate:   req.Date,
		TimeSlot:      req.TimeSlot,
		NumAdults:     req.Adults,
		NumChildren:   req.Children,
		NumSeniors:    req.Seniors,
		GuestServices: guestServices(quote),
		TotalPrice:    quote.Total,
		Status:        models.BookingStatusConfirmed,
		Notes:         optional(strings.TrimSpace(req.Notes)),
		UserAgent:     optional(utils.ParseUserAgent(userAgent).Summary()),
	}

	for attempt := 1; attempt <= s.codeAttempts; attempt++ {
		booking.TicketCode = s.newCode()
		err = s.bookings.Create(ctx, booking)
		if err == nil {
			break
		}
		if database.IsUniqueViolation(err) {
			logger.WithField("attempt", attempt).Warn("Ticket code collision, regenerating")
			booking.ID = uuid.Nil
			continue
		}
		break
	}

	if err != nil {
		var capErr *database.SlotCapacityError
		if errors.As(err, &capErr) {
			available := capErr.Available
			logger.WithField("available", available).Info("Booking rejected: not enough availability")
			return &models.TicketResult{
				Success:   false,
				Error:     models.BookingErrorNoAvailability,
				Message:   fmt.Sprintf("Only %d spot(s) left for this time.", available),
				Available: &available,
			}, ErrNoAvailability
		}
		logger.WithError(err).Error("Failed to create booking")
		return internalResult(), fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}

	logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"ticket_code": booking.TicketCode,
		"total":       booking.TotalPrice,
	}).Info("Booking confirmed")

	return &models.TicketResult{
		Success:    true,
		TicketCode: booking.TicketCode,
		BookingID:  booking.ID.String(),
	}, nil
}

// normalizeContact trims and validates the contact fields in place
func (s *BookingService) normalizeContact(req *models.CreateBookingRequest) (wizard.Contact, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return wizard.Contact{}, errors.New("name is required")
	}
	email, err := validator.ValidateEmail(req.Email)
	if err != nil {
		return wizard.Contact{}, err
	}
	phone := ""
	if strings.TrimSpace(req.Phone) != "" {
		if phone, err = s.phone.Validate(req.Phone); err != nil {
			return wizard.Contact{}, err
		}
	}
	req.Name, req.Email, req.Phone = name, email, phone
	return wizard.Contact{Name: name, Email: email, Phone: phone}, nil
}

func (s *BookingService) isPastDate(date string) bool {
	now := s.now().In(s.location)
	day, err := time.ParseInLocation(models.DateLayout, date, s.location)
	if err != nil {
		return false
	}
	return wizard.IsPastDay(day, now)
}

// quoteRequest prices the request against the current catalog. Every
// service must be a treatment, assigned at most once per guest.
func quoteRequest(req *models.CreateBookingRequest, catalog wizard.Catalog) (wizard.Quote, error) {
	guests := wizard.GuestComposition{Adults: req.Adults, Children: req.Children, Seniors: req.Seniors}
	assignments := wizard.Assignments{}
	for _, gs := range req.GuestServices {
		if _, ok := catalog.Treatment(gs.ServiceID); !ok {
			return wizard.Quote{}, fmt.Errorf("service %q is not an available treatment", gs.ServiceID)
		}
		if assignments.Has(gs.GuestIndex, gs.ServiceID) {
			return wizard.Quote{}, fmt.Errorf("service %q is assigned twice to guest %d", gs.ServiceID, gs.GuestIndex)
		}
		assignments.Toggle(gs.GuestIndex, gs.ServiceID)
	}
	return wizard.Price(guests, assignments, catalog), nil
}

// guestServices stores the server-priced lines, not the submitted ones
func guestServices(q wizard.Quote) models.GuestServiceList {
	out := make(models.GuestServiceList, 0, len(q.Services))
	for _, line := range q.Services {
		out = append(out, models.GuestService{
			GuestIndex:  line.Guest.Ordinal,
			ServiceID:   line.ServiceID,
			ServiceName: line.Title,
			Price:       line.Price,
		})
	}
	return out
}

func invalidResult(err error) *models.TicketResult {
	return &models.TicketResult{Success: false, Error: models.BookingErrorInvalidRequest, Message: err.Error()}
}

func internalResult() *models.TicketResult {
	return &models.TicketResult{
		Success: false,
		Error:   models.BookingErrorInternal,
		Message: "The booking could not be completed. Please try again.",
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ============================================================================
// TICKETS
// ============================================================================

// GetConfirmation rebuilds the ticket snapshot of a stored booking
func (s *BookingService) GetConfirmation(ctx context.Context, code string) (*ticket.Confirmation, error) {
	booking, err := s.bookings.GetByTicketCode(ctx, code)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	branding := ticket.Branding{}
	if cfg, err := s.siteConfig.GetMap(); err != nil {
		s.logger.WithError(err).Warn("Failed to load site config for ticket, using text branding")
	} else {
		branding = ticket.Branding{LogoURL: cfg[models.SiteConfigLogoURL], SiteTitle: cfg[models.SiteConfigSiteTitle]}
	}

	conf := ConfirmationFor(booking, branding)
	return &conf, nil
}

// ConfirmationFor maps a stored booking to its ticket snapshot. Service
// lines keep the prices charged at booking time.
func ConfirmationFor(b *models.Booking, branding ticket.Branding) ticket.Confirmation {
	guests := wizard.GuestComposition{Adults: b.NumAdults, Children: b.NumChildren, Seniors: b.NumSeniors}

	tiers := make([]ticket.TierLine, 0, len(wizard.Tiers))
	for _, tier := range wizard.Tiers {
		tiers = append(tiers, ticket.TierLine{
			Label:     tier.PluralLabel(),
			Count:     guests.Count(tier),
			UnitPrice: tier.UnitPrice(),
		})
	}

	services := make([]ticket.ServiceLine, 0, len(b.GuestServices))
	for _, gs := range b.GuestServices {
		label := fmt.Sprintf("Guest %d", gs.GuestIndex+1)
		if id, ok := guests.Identity(gs.GuestIndex); ok {
			label = id.Label()
		}
		services = append(services, ticket.ServiceLine{
			GuestIndex:  gs.GuestIndex,
			GuestLabel:  label,
			ServiceName: gs.ServiceName,
			Price:       gs.Price,
		})
	}

	contact := ticket.Contact{Name: b.UserName, Email: b.UserEmail}
	if b.UserPhone != nil {
		contact.Phone = *b.UserPhone
	}
	notes := ""
	if b.Notes != nil {
		notes = *b.Notes
	}

	return ticket.Confirmation{
		TicketCode: b.TicketCode,
		BookingID:  b.ID.String(),
		Branding:   branding,
		Contact:    contact,
		Date:       b.BookingDate,
		TimeSlot:   b.TimeSlot,
		Tiers:      tiers,
		Services:   services,
		Total:      b.TotalPrice,
		Notes:      notes,
	}
}
