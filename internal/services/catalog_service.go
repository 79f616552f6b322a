package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thermalsanctuary/booking-backend/internal/database"
	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// editableSiteConfigKeys are the keys staff may change
var editableSiteConfigKeys = map[string]bool{
	models.SiteConfigLogoURL:   true,
	models.SiteConfigSiteTitle: true,
}

// CatalogService serves the read side the wizard depends on (services,
// slots, site config) and the staff edits to it
type CatalogService struct {
	services   ServiceStore
	slots      SlotStore
	siteConfig SiteConfigStore
	logger     *logrus.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(services ServiceStore, slots SlotStore, siteConfig SiteConfigStore, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		services:   services,
		slots:      slots,
		siteConfig: siteConfig,
		logger:     logger,
	}
}

// ListServices returns the full catalog
func (s *CatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	return s.services.List(ctx)
}

// ListSlots returns the configured slot rows for a date
func (s *CatalogService) ListSlots(ctx context.Context, date string) ([]models.TimeSlotCapacity, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", ErrInvalidInput)
	}
	return s.slots.ListByDate(ctx, date)
}

// GetSiteConfig returns the site configuration as a key/value map
func (s *CatalogService) GetSiteConfig(ctx context.Context) (map[string]string, error) {
	return s.siteConfig.GetMap()
}

// ============================================================================
// STAFF EDITS
// ============================================================================

// CreateService adds a catalog entry
func (s *CatalogService) CreateService(ctx context.Context, req *models.ServiceRequest) (*models.Service, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	svc := &models.Service{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"service_id": svc.ID,
		"category":   svc.Category,
	}).Info("Service created")
	return svc, nil
}

// UpdateService replaces a catalog entry
func (s *CatalogService) UpdateService(ctx context.Context, id string, req *models.ServiceRequest) (*models.Service, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	svc := &models.Service{
		ID:          id,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if err := s.services.Update(ctx, svc); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return svc, nil
}

// DeleteService removes a catalog entry
func (s *CatalogService) DeleteService(ctx context.Context, id string) error {
	if err := s.services.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.logger.WithField("service_id", id).Info("Service deleted")
	return nil
}

// UpsertSlot sets the capacity of one slot
func (s *CatalogService) UpsertSlot(ctx context.Context, req *models.UpsertSlotCapacityRequest) (*models.TimeSlotCapacity, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.slots.Upsert(ctx, req)
}

// SetSiteConfig stores one editable configuration value
func (s *CatalogService) SetSiteConfig(ctx context.Context, key, value string) error {
	if !editableSiteConfigKeys[key] {
		return fmt.Errorf("%w: unknown site config key %q", ErrInvalidInput, key)
	}
	return s.siteConfig.Set(key, strings.TrimSpace(value))
}
