package models

import (
	"errors"
	"strings"
	"time"
)

// ServiceCategory is the catalog listing a service belongs to
type ServiceCategory string

const (
	ServiceCategoryGeneral   ServiceCategory = "general"
	ServiceCategoryTreatment ServiceCategory = "treatment"
	ServiceCategoryLodging   ServiceCategory = "lodging"
)

// IsValid reports whether the category is one the catalog accepts
func (c ServiceCategory) IsValid() bool {
	switch c {
	case ServiceCategoryGeneral, ServiceCategoryTreatment, ServiceCategoryLodging:
		return true
	}
	return false
}

// Service is a catalog entry (entry passes, treatments, lodging)
type Service struct {
	ID          string          `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Description *string         `json:"description,omitempty" db:"description"`
	Price       int64           `json:"price" db:"price"`
	Category    ServiceCategory `json:"category" db:"category"`
	ImageURL    *string         `json:"image_url,omitempty" db:"image_url"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ServiceRequest is the admin payload for creating or updating a service
type ServiceRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description *string         `json:"description,omitempty"`
	Price       int64           `json:"price"`
	Category    ServiceCategory `json:"category" binding:"required"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

// Validate validates the service request
func (r *ServiceRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if r.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if !r.Category.IsValid() {
		return errors.New("category must be general, treatment or lodging")
	}
	return nil
}
