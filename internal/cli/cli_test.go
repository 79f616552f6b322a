package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thermalsanctuary/booking-backend/internal/handlers"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/services"
	"github.com/thermalsanctuary/booking-backend/internal/ticket"
)

func sampleConfirmation() ticket.Confirmation {
	return ticket.Confirmation{
		TicketCode: "TS-ABCDEF12",
		Branding:   ticket.Branding{SiteTitle: "Termales del Bosque"},
		Contact:    ticket.Contact{Name: "Ana Ruiz", Email: "ana@example.com"},
		Date:       "2026-03-14",
		TimeSlot:   "10:00",
		Tiers:      []ticket.TierLine{{Label: "Adults", Count: 2, UnitPrice: 75000}},
		Total:      150000,
	}
}

func ticketServer(t *testing.T) *httptest.Server {
	t.Helper()
	conf := sampleConfirmation()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tickets/TS-ABCDEF12":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(handlers.TicketResponse{Confirmation: &conf, Document: ticket.Build(conf)})
		case "/tickets/TS-ABCDEF12/print":
			var buf bytes.Buffer
			_ = ticket.Build(conf).RenderHTML(&buf)
			_, _ = w.Write(buf.Bytes())
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"TICKET_NOT_FOUND"}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTicketCommand_RendersTicket(t *testing.T) {
	server := ticketServer(t)

	out, err := execute(t, "--api-url", server.URL, "ticket", "TS-ABCDEF12")

	require.NoError(t, err)
	assert.Contains(t, out, "TS-ABCDEF12")
	assert.Contains(t, out, "Termales del Bosque")
	assert.Contains(t, out, "150.000 COP")
}

func TestTicketCommand_APIURLFromEnvironment(t *testing.T) {
	server := ticketServer(t)
	t.Setenv("SANCTUARY_API_URL", server.URL)

	out, err := execute(t, "ticket", "TS-ABCDEF12")

	require.NoError(t, err)
	assert.Contains(t, out, "TS-ABCDEF12")
}

func TestTicketCommand_WritesPrintFile(t *testing.T) {
	server := ticketServer(t)
	path := filepath.Join(t.TempDir(), "ticket.html")

	out, err := execute(t, "--api-url", server.URL, "ticket", "TS-ABCDEF12", "--print", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Printable ticket written to "+path)
	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<!DOCTYPE html>")
	assert.Contains(t, string(html), "TS-ABCDEF12")
}

func TestTicketCommand_NotFound(t *testing.T) {
	server := ticketServer(t)

	_, err := execute(t, "--api-url", server.URL, "ticket", "TS-00000000")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no booking found for ticket TS-00000000")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "sanctuary dev")
}

type fakeAdminStore struct {
	created []*models.AdminUser
}

func (f *fakeAdminStore) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return nil, nil
}

func (f *fakeAdminStore) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	return nil, nil
}

func (f *fakeAdminStore) Create(ctx context.Context, admin *models.AdminUser) error {
	admin.ID = uuid.New()
	f.created = append(f.created, admin)
	return nil
}

func (f *fakeAdminStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func stubAdminCreate(t *testing.T, passwords ...string) *fakeAdminStore {
	t.Helper()
	store := &fakeAdminStore{}

	origPrompt, origOpen := promptPassword, openAdminStore
	t.Cleanup(func() { promptPassword, openAdminStore = origPrompt, origOpen })

	calls := 0
	promptPassword = func(label string) (string, error) {
		p := passwords[calls]
		calls++
		return p, nil
	}
	openAdminStore = func(url, driver string) (services.AdminUserStore, io.Closer, error) {
		assert.Equal(t, "postgres://localhost/sanctuary", url)
		return store, nopCloser{}, nil
	}
	return store
}

func TestAdminCreate(t *testing.T) {
	store := stubAdminCreate(t, "s3cret-pass", "s3cret-pass")

	out, err := execute(t, "admin", "create",
		"--email", "Boss@Example.com",
		"--name", "Front Desk",
		"--database-url", "postgres://localhost/sanctuary",
		"--bcrypt-cost", "4",
	)

	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, "boss@example.com", store.created[0].Email)
	assert.True(t, store.created[0].IsActive)
	assert.NotEqual(t, "s3cret-pass", store.created[0].PasswordHash)
	assert.Contains(t, out, "boss@example.com")
}

func TestAdminCreate_DatabaseURLFromEnvironment(t *testing.T) {
	store := stubAdminCreate(t, "s3cret-pass", "s3cret-pass")
	t.Setenv("DATABASE_URL", "postgres://localhost/sanctuary")

	_, err := execute(t, "admin", "create", "--email", "boss@example.com", "--bcrypt-cost", "4")

	require.NoError(t, err)
	assert.Len(t, store.created, 1)
}

func TestAdminCreate_PasswordMismatch(t *testing.T) {
	store := stubAdminCreate(t, "s3cret-pass", "different-pass")

	_, err := execute(t, "admin", "create", "--email", "boss@example.com", "--database-url", "postgres://localhost/sanctuary")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "passwords do not match")
	assert.Empty(t, store.created)
}

func TestAdminCreate_RequiresDatabaseURL(t *testing.T) {
	stubAdminCreate(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SANCTUARY_DATABASE_URL", "")

	_, err := execute(t, "admin", "create", "--email", "boss@example.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is required")
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, validatePassword("short"))
	assert.NoError(t, validatePassword("long-enough"))
}
