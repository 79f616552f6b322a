package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thermalsanctuary/booking-backend/internal/middleware"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/services"
)

// AdminHandler handles the staff dashboard: bookings, catalog, slots, branding
type AdminHandler struct {
	bookings AdminBookingService
	catalog  CatalogService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(bookings AdminBookingService, catalog CatalogService) *AdminHandler {
	return &AdminHandler{bookings: bookings, catalog: catalog}
}

// ============================================================================
// BOOKINGS
// ============================================================================

// ListBookings handles GET /api/v1/admin/bookings?status=&q=&limit=&offset=
func (h *AdminHandler) ListBookings(c *gin.Context) {
	filter := models.BookingFilter{
		Status: models.BookingStatus(c.Query("status")),
		Search: c.Query("q"),
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(c, "offset must be a non-negative integer")
			return
		}
		filter.Offset = n
	}

	resp, err := h.bookings.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "list bookings", err)
		return
	}
	if resp.Bookings == nil {
		resp.Bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateBookingStatus handles PATCH /api/v1/admin/bookings/:id/status
func (h *AdminHandler) UpdateBookingStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid booking ID format")
		return
	}

	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	adminCtx := middleware.MustGetAdminContext(c)
	booking, err := h.bookings.UpdateStatus(c.Request.Context(), id, &req, adminCtx.AdminID)
	if err != nil {
		h.fail(c, "update booking status", err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ============================================================================
// CATALOG
// ============================================================================

// CreateService handles POST /api/v1/admin/services
func (h *AdminHandler) CreateService(c *gin.Context) {
	var req models.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	svc, err := h.catalog.CreateService(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, "create service", err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// UpdateService handles PUT /api/v1/admin/services/:id
func (h *AdminHandler) UpdateService(c *gin.Context) {
	var req models.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	svc, err := h.catalog.UpdateService(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.fail(c, "update service", err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// DeleteService handles DELETE /api/v1/admin/services/:id
func (h *AdminHandler) DeleteService(c *gin.Context) {
	if err := h.catalog.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete service", err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Service deleted"})
}

// UpsertSlot handles PUT /api/v1/admin/slots
func (h *AdminHandler) UpsertSlot(c *gin.Context) {
	var req models.UpsertSlotCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	slot, err := h.catalog.UpsertSlot(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, "upsert slot", err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// SetSiteConfig handles PUT /api/v1/admin/site-config/:key
func (h *AdminHandler) SetSiteConfig(c *gin.Context) {
	var req models.UpdateSiteConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	key := c.Param("key")
	if err := h.catalog.SetSiteConfig(c.Request.Context(), key, req.Value); err != nil {
		h.fail(c, "set site config", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: message,
		Code:    "INVALID_REQUEST",
	})
}

func (h *AdminHandler) fail(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		badRequest(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Record not found",
			Code:    "NOT_FOUND",
		})
	case errors.Is(err, services.ErrNoAvailability):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
			Code:    models.BookingErrorNoAvailability,
		})
	default:
		log.Printf("ERROR: Failed to %s: %v", action, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to " + action,
		})
	}
}
