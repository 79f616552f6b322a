package models

import (
	"time"
)

// Well-known site configuration keys
const (
	SiteConfigLogoURL   = "logo_url"
	SiteConfigSiteTitle = "site_title"
)

// SiteConfig is a key/value setting for the public site (branding and the like)
type SiteConfig struct {
	ID          string    `json:"id" db:"id"`
	Key         string    `json:"key" db:"key"`
	Value       string    `json:"value" db:"value"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateSiteConfigRequest represents the request to set a site configuration value
type UpdateSiteConfigRequest struct {
	Value string `json:"value" binding:"required"`
}
