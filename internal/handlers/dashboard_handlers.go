package handlers

import (
	"context"

	"sgspadmin/internal/common"
	"sgspadmin/internal/models"

	"github.com/labstack/echo/v4"
)

// DashboardProvider is the slice of analytics.DashboardService the
// handlers need.
type DashboardProvider interface {
	Summary(ctx context.Context) (*models.DashboardSummary, error)
	TopProducts(ctx context.Context) []models.TopProduct
}

type DashboardHandlers struct {
	dashboard DashboardProvider
}

func NewDashboardHandlers(dashboard DashboardProvider) *DashboardHandlers {
	return &DashboardHandlers{dashboard: dashboard}
}

func (h *DashboardHandlers) Summary(c echo.Context) error {
	summary, err := h.dashboard.Summary(c.Request().Context())
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, summary)
}

// TopProducts never fails; an unavailable order store yields an empty list.
func (h *DashboardHandlers) TopProducts(c echo.Context) error {
	return common.SendSuccess(c, h.dashboard.TopProducts(c.Request().Context()))
}
