package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"sgspadmin/internal/models"
	"sgspadmin/internal/repositories"

	"github.com/google/uuid"
)

type CategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	Create(ctx context.Context, req *models.CategoryRequest) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, req *models.CategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

type categoryService struct {
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
}

func NewCategoryService(categories repositories.CategoryRepository, products repositories.ProductRepository) CategoryService {
	return &categoryService{categories: categories, products: products}
}

// Slugify derives a URL slug from a display name.
func Slugify(name string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) apply(category *models.Category, req *models.CategoryRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return validationError("name is required")
	}
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if req.ParentID != nil && *req.ParentID == category.ID {
		return validationError("a category cannot be its own parent")
	}
	category.Name = name
	category.Slug = slug
	category.ParentID = req.ParentID
	category.Description = req.Description
	return nil
}

func (s *categoryService) Create(ctx context.Context, req *models.CategoryRequest) (*models.Category, error) {
	category := &models.Category{ID: uuid.New()}
	if err := s.apply(category, req); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req *models.CategoryRequest) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if err := s.apply(category, req); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// Delete archives the category unless a non-archived product still uses it.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	inUse, err := s.products.CountActiveByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if inUse > 0 {
		return ErrCategoryInUse
	}
	if err := s.categories.Archive(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to archive category: %w", err)
	}
	return nil
}
