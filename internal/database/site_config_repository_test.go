package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteConfigRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSiteConfigRepository(&sqlMockDB{db: db})
	now := time.Now()

	t.Run("GetMap", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM site_config ORDER BY key`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "description", "created_at", "updated_at"}).
				AddRow("1", "logo_url", "https://cdn.example/logo.png", "Logo", now, now).
				AddRow("2", "site_title", "Termales del Bosque", nil, now, now))

		values, err := repo.GetMap()
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"logo_url":   "https://cdn.example/logo.png",
			"site_title": "Termales del Bosque",
		}, values)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Set", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO site_config (.+) ON CONFLICT \(key\) DO UPDATE`).
			WithArgs("site_title", "Sanctuary").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Set("site_title", "Sanctuary"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM site_config`).WillReturnError(fmt.Errorf("database error"))

		_, err := repo.GetMap()
		assert.ErrorContains(t, err, "failed to query site config")
	})

	t.Run("Missing key", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM site_config WHERE key = \$1`).
			WithArgs("theme").
			WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "description", "created_at", "updated_at"}))

		_, err := repo.GetByKey("theme")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
