package handlers

import (
	"log"

	"sgspadmin/internal/common"
	"sgspadmin/internal/models"
	"sgspadmin/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles login, logout and identity lookup
type AuthHandlers struct {
	sessionService services.SessionService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(sessionService services.SessionService) *AuthHandlers {
	return &AuthHandlers{sessionService: sessionService}
}

// Login handles admin login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequest(common.CodeInvalidRequest, "Invalid request format")
	}

	resp, err := h.sessionService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, resp)
}

// Logout revokes the presented token. It always succeeds.
func (h *AuthHandlers) Logout(c echo.Context) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if err := h.sessionService.Logout(c.Request().Context(), header); err != nil {
		log.Printf("WARN: logout: %v", err)
	}
	return common.SendSuccess(c, nil)
}

// Me returns the profile of the authenticated admin
func (h *AuthHandlers) Me(c echo.Context) error {
	claims, _ := common.ClaimsFromContext(c.Request().Context())
	profile, err := h.sessionService.Me(c.Request().Context(), claims)
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, profile)
}
