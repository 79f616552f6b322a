package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/services"
)

func setupCatalogRouter(svc *MockCatalogService) *gin.Engine {
	router := newTestRouter()
	h := NewCatalogHandler(svc)
	router.GET("/services", h.ListServices)
	router.GET("/slots", h.ListSlots)
	router.GET("/site-config", h.GetSiteConfig)
	return router
}

func TestListServices(t *testing.T) {
	svc := new(MockCatalogService)
	svc.On("ListServices", mock.Anything).Return([]models.Service{
		{ID: "mud", Title: "Mud Ritual", Price: 150000, Category: models.ServiceCategoryTreatment},
	}, nil)

	w := doJSON(setupCatalogRouter(svc), "GET", "/services", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"category":"treatment"`)
}

func TestListSlots(t *testing.T) {
	t.Run("empty day is an empty list", func(t *testing.T) {
		svc := new(MockCatalogService)
		svc.On("ListSlots", mock.Anything, "2026-03-12").Return(nil, nil)

		w := doJSON(setupCatalogRouter(svc), "GET", "/slots?date=2026-03-12", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("missing date", func(t *testing.T) {
		w := doJSON(setupCatalogRouter(new(MockCatalogService)), "GET", "/slots", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "MISSING_DATE")
	})

	t.Run("malformed date", func(t *testing.T) {
		svc := new(MockCatalogService)
		svc.On("ListSlots", mock.Anything, "12-03-2026").
			Return(nil, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", services.ErrInvalidInput))

		w := doJSON(setupCatalogRouter(svc), "GET", "/slots?date=12-03-2026", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_DATE")
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(MockCatalogService)
		svc.On("ListSlots", mock.Anything, "2026-03-12").Return(nil, errors.New("db down"))

		w := doJSON(setupCatalogRouter(svc), "GET", "/slots?date=2026-03-12", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetSiteConfig(t *testing.T) {
	svc := new(MockCatalogService)
	svc.On("GetSiteConfig", mock.Anything).Return(map[string]string{"site_title": "Thermal Sanctuary"}, nil)

	w := doJSON(setupCatalogRouter(svc), "GET", "/site-config", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"site_title":"Thermal Sanctuary"}`, w.Body.String())
}
