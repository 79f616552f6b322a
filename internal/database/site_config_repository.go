package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// SiteConfigRepository handles database operations for the site_config table
type SiteConfigRepository struct {
	db DB
}

// NewSiteConfigRepository creates a new SiteConfigRepository
func NewSiteConfigRepository(db DB) *SiteConfigRepository {
	return &SiteConfigRepository{db: db}
}

// GetAll retrieves all site configuration entries
func (r *SiteConfigRepository) GetAll() ([]models.SiteConfig, error) {
	query := `
		SELECT id::text, key, value, description, created_at, updated_at
		FROM site_config
		ORDER BY key
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query site config: %w", err)
	}
	defer rows.Close()

	entries := []models.SiteConfig{}
	for rows.Next() {
		var entry models.SiteConfig
		var description sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.Key,
			&entry.Value,
			&description,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site config: %w", err)
		}

		if description.Valid {
			entry.Description = &description.String
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// GetMap returns the configuration as a key/value map
func (r *SiteConfigRepository) GetMap() (map[string]string, error) {
	entries, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(entries))
	for _, e := range entries {
		values[e.Key] = e.Value
	}
	return values, nil
}

// GetByKey retrieves one entry by key
func (r *SiteConfigRepository) GetByKey(key string) (*models.SiteConfig, error) {
	query := `
		SELECT id::text, key, value, description, created_at, updated_at
		FROM site_config
		WHERE key = $1
	`

	var entry models.SiteConfig
	var description sql.NullString

	err := r.db.QueryRow(query, key).Scan(
		&entry.ID,
		&entry.Key,
		&entry.Value,
		&description,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get site config: %w", err)
	}

	if description.Valid {
		entry.Description = &description.String
	}

	return &entry, nil
}

// Set stores a value, creating the key if it does not exist
func (r *SiteConfigRepository) Set(key, value string) error {
	query := `
		INSERT INTO site_config (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set site config %s: %w", key, err)
	}
	return nil
}
