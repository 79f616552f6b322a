package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// AdminUserRepository handles admin user database operations
type AdminUserRepository struct {
	db DB
}

// NewAdminUserRepository creates a new admin user repository
func NewAdminUserRepository(db DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetByEmail retrieves an admin user by email
func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, full_name, is_active, last_login_at,
		       created_at, updated_at
		FROM admin_users
		WHERE email = $1
	`
	return r.scanOne(r.db.QueryRow(query, strings.ToLower(strings.TrimSpace(email))))
}

// GetByID retrieves an admin user by ID
func (r *AdminUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, full_name, is_active, last_login_at,
		       created_at, updated_at
		FROM admin_users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

func (r *AdminUserRepository) scanOne(row *sql.Row) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := row.Scan(
		&admin.ID, &admin.Email, &admin.PasswordHash, &admin.FullName, &admin.IsActive,
		&admin.LastLoginAt, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("admin user not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}
	return &admin, nil
}

// Create creates a new admin user
func (r *AdminUserRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	// Generate UUID if not provided
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))

	query := `
		INSERT INTO admin_users (id, email, password_hash, full_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(query,
		admin.ID,
		admin.Email,
		admin.PasswordHash,
		admin.FullName,
		admin.IsActive,
	).Scan(&admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}

// UpdateLastLogin updates the last login timestamp
func (r *AdminUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE admin_users
		SET last_login_at = $1, updated_at = $1
		WHERE id = $2
	`

	_, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}
