package handlers

import (
	"sgspadmin/internal/common"
	"sgspadmin/internal/services"

	"github.com/labstack/echo/v4"
)

// InventoryHandlers reports stock levels across the catalog
type InventoryHandlers struct {
	productService services.ProductService
}

func NewInventoryHandlers(productService services.ProductService) *InventoryHandlers {
	return &InventoryHandlers{productService: productService}
}

// LowStock lists products whose stock is at or below their threshold
func (h *InventoryHandlers) LowStock(c echo.Context) error {
	items, err := h.productService.LowStock(c.Request().Context())
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, items)
}

func (h *InventoryHandlers) LowStockSummary(c echo.Context) error {
	summary, err := h.productService.LowStockSummary(c.Request().Context())
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, summary)
}
