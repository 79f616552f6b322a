package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// ServiceRepository handles database operations for the services catalog
type ServiceRepository struct {
	db *sqlx.DB
}

// NewServiceRepository creates a new ServiceRepository
func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

const serviceColumns = `id, title, description, price, category, image_url, created_at, updated_at`

// List returns every service in creation order
func (r *ServiceRepository) List(ctx context.Context) ([]models.Service, error) {
	services := []models.Service{}
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

// GetByID returns one service
func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*models.Service, error) {
	var service models.Service
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}

// Create inserts a service and fills in its generated id and timestamps
func (r *ServiceRepository) Create(ctx context.Context, s *models.Service) error {
	query := `
		INSERT INTO services (title, description, price, category, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, s.Title, s.Description, s.Price, s.Category, s.ImageURL).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// Update replaces a service's editable fields
func (r *ServiceRepository) Update(ctx context.Context, s *models.Service) error {
	query := `
		UPDATE services
		SET title = $1, description = $2, price = $3, category = $4, image_url = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, s.Title, s.Description, s.Price, s.Category, s.ImageURL, s.ID).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update service: %w", err)
	}
	return nil
}

// Delete removes a service. Existing bookings keep their denormalized
// service names and prices.
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
