package handlers

import (
	"sgspadmin/internal/common"
	"sgspadmin/internal/models"
	"sgspadmin/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandlers handles category-related HTTP requests
type CategoryHandlers struct {
	categoryService services.CategoryService
}

// NewCategoryHandlers creates a new category handlers instance
func NewCategoryHandlers(categoryService services.CategoryService) *CategoryHandlers {
	return &CategoryHandlers{categoryService: categoryService}
}

// ListCategories returns every non-archived category
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.List(c.Request().Context())
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, categories)
}

func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	var req models.CategoryRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	category, err := h.categoryService.Create(c.Request().Context(), &req)
	if err != nil {
		return toAppError(err)
	}
	return common.SendCreated(c, category)
}

func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req models.CategoryRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	category, err := h.categoryService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, category)
}

// DeleteCategory archives the category unless products still use it
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.categoryService.Delete(c.Request().Context(), id); err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, nil)
}
