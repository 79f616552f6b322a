package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything the health check can probe
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthHandler reports dependency health
type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler creates a health handler; nil checks are skipped
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	active := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			active[name] = p
		}
	}
	return &HealthHandler{checks: active}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	report := gin.H{}
	for name, p := range h.checks {
		if err := p.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			report[name] = "unhealthy: " + err.Error()
			continue
		}
		report[name] = "healthy"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":    overall,
		"checks":    report,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
