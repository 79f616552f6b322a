package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/services"
)

// CatalogHandler serves the public read endpoints the wizard loads from
type CatalogHandler struct {
	catalog CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListServices handles GET /api/v1/services
func (h *CatalogHandler) ListServices(c *gin.Context) {
	list, err := h.catalog.ListServices(c.Request.Context())
	if err != nil {
		log.Printf("ERROR: Failed to list services: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to load services",
		})
		return
	}
	if list == nil {
		list = []models.Service{}
	}
	c.JSON(http.StatusOK, list)
}

// ListSlots handles GET /api/v1/slots?date=YYYY-MM-DD
// An empty list is a valid answer; clients fall back to their default times.
func (h *CatalogHandler) ListSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "date query parameter is required",
			Code:    "MISSING_DATE",
		})
		return
	}

	slots, err := h.catalog.ListSlots(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: err.Error(),
				Code:    "INVALID_DATE",
			})
			return
		}
		log.Printf("ERROR: Failed to list slots for %s: %v", date, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to load time slots",
		})
		return
	}
	if slots == nil {
		slots = []models.TimeSlotCapacity{}
	}
	c.JSON(http.StatusOK, slots)
}

// GetSiteConfig handles GET /api/v1/site-config
func (h *CatalogHandler) GetSiteConfig(c *gin.Context) {
	cfg, err := h.catalog.GetSiteConfig(c.Request.Context())
	if err != nil {
		log.Printf("ERROR: Failed to load site config: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to load site configuration",
		})
		return
	}
	c.JSON(http.StatusOK, cfg)
}
