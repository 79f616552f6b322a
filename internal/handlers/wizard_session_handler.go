package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/services"
	"github.com/thermalsanctuary/booking-backend/internal/utils"
)

// WizardSessionHandler serves the booking wizard to web front-ends
type WizardSessionHandler struct {
	sessions WizardSessionService
}

// NewWizardSessionHandler creates a new wizard session handler
func NewWizardSessionHandler(sessions WizardSessionService) *WizardSessionHandler {
	return &WizardSessionHandler{sessions: sessions}
}

// Create handles POST /api/v1/wizard/sessions
func (h *WizardSessionHandler) Create(c *gin.Context) {
	view, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Get handles GET /api/v1/wizard/sessions/:id
func (h *WizardSessionHandler) Get(c *gin.Context) {
	view, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Apply handles POST /api/v1/wizard/sessions/:id/actions
func (h *WizardSessionHandler) Apply(c *gin.Context) {
	var req models.WizardActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    "INVALID_ACTION",
		})
		return
	}

	view, err := h.sessions.Apply(c.Request.Context(), c.Param("id"), &req, utils.GetUserAgent(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /api/v1/wizard/sessions/:id
func (h *WizardSessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WizardSessionHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Booking session not found or expired",
			Code:    "SESSION_NOT_FOUND",
		})
	case errors.Is(err, services.ErrSessionBusy):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: "Another request is updating this booking",
			Code:    "SESSION_BUSY",
		})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    "INVALID_ACTION",
		})
	default:
		log.Printf("ERROR: Wizard session request failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to process booking session",
		})
	}
}
