package handlers

import (
	"sgspadmin/internal/common"
	"sgspadmin/internal/models"
	"sgspadmin/internal/services"

	"github.com/labstack/echo/v4"
)

// AdminHandlers manages back-office accounts
type AdminHandlers struct {
	adminService services.AdminService
}

func NewAdminHandlers(adminService services.AdminService) *AdminHandlers {
	return &AdminHandlers{adminService: adminService}
}

func (h *AdminHandlers) ListAdmins(c echo.Context) error {
	admins, err := h.adminService.List(c.Request().Context())
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, admins)
}

func (h *AdminHandlers) CreateAdmin(c echo.Context) error {
	var req models.CreateAdminRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	admin, err := h.adminService.Create(c.Request().Context(), &req)
	if err != nil {
		return toAppError(err)
	}
	return common.SendCreated(c, admin)
}

// UpdateAdmin patches name, role and active flag
func (h *AdminHandlers) UpdateAdmin(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateAdminRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	admin, err := h.adminService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, admin)
}

func (h *AdminHandlers) ResetPassword(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req models.ResetPasswordRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.adminService.ResetPassword(c.Request().Context(), id, req.NewPassword); err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, nil)
}
