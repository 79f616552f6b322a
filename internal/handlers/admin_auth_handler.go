package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thermalsanctuary/booking-backend/internal/middleware"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/services"
)

// AdminAuthHandler handles admin authentication HTTP requests
type AdminAuthHandler struct {
	adminAuthService AdminAuthService
	logger           *logrus.Logger
}

// NewAdminAuthHandler creates a new admin auth handler
func NewAdminAuthHandler(adminAuthService AdminAuthService, logger *logrus.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{
		adminAuthService: adminAuthService,
		logger:           logger,
	}
}

// Login handles admin login requests
// @Summary Admin login
// @Description Authenticate admin user and return access and refresh tokens
// @Tags Admin Auth
// @Accept json
// @Produce json
// @Param loginRequest body models.AdminLoginRequest true "Login credentials"
// @Success 200 {object} models.AdminLoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /admin/auth/login [post]
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    "INVALID_REQUEST",
		})
		return
	}

	response, err := h.adminAuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"email": req.Email,
			"error": err.Error(),
		}).Warn("Admin login failed")

		code := "INVALID_CREDENTIALS"
		if errors.Is(err, services.ErrAccountInactive) {
			code = "ACCOUNT_INACTIVE"
		}
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: err.Error(),
			Code:    code,
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"admin_id": response.AdminUser.ID,
		"email":    response.AdminUser.Email,
	}).Info("Admin login successful")

	c.JSON(http.StatusOK, response)
}

// RefreshToken handles token refresh requests
// @Summary Refresh access token
// @Tags Admin Auth
// @Router /admin/auth/refresh [post]
func (h *AdminAuthHandler) RefreshToken(c *gin.Context) {
	var req models.AdminRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    "INVALID_REQUEST",
		})
		return
	}

	response, err := h.adminAuthService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.logger.WithError(err).Warn("Token refresh failed")
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
			Code:    "INVALID_REFRESH_TOKEN",
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Me returns the signed-in admin as carried by the access token
func (h *AdminAuthHandler) Me(c *gin.Context) {
	adminCtx, ok := middleware.GetAdminContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Not signed in"})
		return
	}
	c.JSON(http.StatusOK, adminCtx)
}
