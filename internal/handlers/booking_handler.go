package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/services"
	"github.com/thermalsanctuary/booking-backend/internal/ticket"
	"github.com/thermalsanctuary/booking-backend/internal/utils"
)

// BookingHandler handles booking creation and ticket lookups
type BookingHandler struct {
	bookings BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// TicketResponse is returned by GET /tickets/:code
type TicketResponse struct {
	Confirmation *ticket.Confirmation `json:"confirmation"`
	Document     ticket.Document      `json:"document"`
}

// CreateBooking handles POST /api/v1/bookings
// Every answer carries a TicketResult body; the status code classifies it.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.TicketResult{
			Success: false,
			Error:   models.BookingErrorInvalidRequest,
			Message: "Invalid request body",
		})
		return
	}

	result, err := h.bookings.CreateBooking(c.Request.Context(), &req, utils.GetUserAgent(c))
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, result)
	case errors.Is(err, services.ErrInvalidBooking), errors.Is(err, services.ErrPriceMismatch):
		c.JSON(http.StatusBadRequest, result)
	case errors.Is(err, services.ErrNoAvailability):
		c.JSON(http.StatusConflict, result)
	default:
		log.Printf("ERROR: Booking creation failed for %s %s: %v", req.Date, req.TimeSlot, err)
		if result == nil {
			result = &models.TicketResult{Success: false, Error: models.BookingErrorInternal, Message: "The booking could not be completed. Please try again."}
		}
		c.JSON(http.StatusInternalServerError, result)
	}
}

// GetTicket handles GET /api/v1/tickets/:code
func (h *BookingHandler) GetTicket(c *gin.Context) {
	conf, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, TicketResponse{Confirmation: conf, Document: ticket.Build(*conf)})
}

// GetTicketPrint handles GET /api/v1/tickets/:code/print
func (h *BookingHandler) GetTicketPrint(c *gin.Context) {
	conf, ok := h.lookup(c)
	if !ok {
		return
	}

	var b strings.Builder
	if err := ticket.Build(*conf).RenderHTML(&b); err != nil {
		log.Printf("ERROR: Failed to render ticket %s: %v", conf.TicketCode, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to render ticket",
		})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(b.String()))
}

func (h *BookingHandler) lookup(c *gin.Context) (*ticket.Confirmation, bool) {
	code := strings.TrimSpace(c.Param("code"))
	conf, err := h.bookings.GetConfirmation(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Ticket not found",
				Code:    "TICKET_NOT_FOUND",
			})
			return nil, false
		}
		log.Printf("ERROR: Failed to load ticket %s: %v", code, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to load ticket",
		})
		return nil, false
	}
	return conf, true
}
