package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/services"
	"github.com/thermalsanctuary/booking-backend/internal/wizard"
)

func setupWizardRouter(svc *MockWizardSessionService) *gin.Engine {
	router := newTestRouter()
	h := NewWizardSessionHandler(svc)
	router.POST("/wizard/sessions", h.Create)
	router.GET("/wizard/sessions/:id", h.Get)
	router.POST("/wizard/sessions/:id/actions", h.Apply)
	router.DELETE("/wizard/sessions/:id", h.Delete)
	return router
}

func TestWizardSessions_CreateAndGet(t *testing.T) {
	svc := new(MockWizardSessionService)
	view := &services.WizardSessionView{ID: "abc", View: wizard.View{Step: 1, StepName: "guests"}}
	svc.On("Create", mock.Anything).Return(view, nil)
	svc.On("Get", mock.Anything, "abc").Return(view, nil)
	router := setupWizardRouter(svc)

	w := doJSON(router, "POST", "/wizard/sessions", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"step_name":"guests"`)

	w = doJSON(router, "GET", "/wizard/sessions/abc", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWizardSessions_Apply(t *testing.T) {
	svc := new(MockWizardSessionService)
	svc.On("Apply", mock.Anything, "abc", &models.WizardActionRequest{Type: models.WizardActionSetGuests, Tier: "adult", Count: 2}, "handler-test").
		Return(&services.WizardSessionView{ID: "abc"}, nil)

	w := doJSON(setupWizardRouter(svc), "POST", "/wizard/sessions/abc/actions",
		map[string]interface{}{"type": "set_guests", "tier": "adult", "count": 2})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestWizardSessions_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", services.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{"busy", services.ErrSessionBusy, http.StatusConflict, "SESSION_BUSY"},
		{"invalid", fmt.Errorf("%w: date is required", services.ErrInvalidInput), http.StatusBadRequest, "INVALID_ACTION"},
		{"store down", fmt.Errorf("redis: connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockWizardSessionService)
			svc.On("Apply", mock.Anything, "abc", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := doJSON(setupWizardRouter(svc), "POST", "/wizard/sessions/abc/actions", map[string]string{"type": "next"})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestWizardSessions_MissingType(t *testing.T) {
	svc := new(MockWizardSessionService)

	w := doJSON(setupWizardRouter(svc), "POST", "/wizard/sessions/abc/actions", map[string]string{"tier": "adult"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWizardSessions_Delete(t *testing.T) {
	svc := new(MockWizardSessionService)
	svc.On("Delete", mock.Anything, "abc").Return(nil)

	w := doJSON(setupWizardRouter(svc), "DELETE", "/wizard/sessions/abc", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
