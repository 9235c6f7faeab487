package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"sgspadmin/internal/caching"
	"sgspadmin/internal/common"
	"sgspadmin/internal/models"
	"sgspadmin/internal/repositories"

	"github.com/google/uuid"
)

// ErrImageStorageDisabled is returned by image operations when no blob
// store is configured.
var ErrImageStorageDisabled = errors.New("image storage is not configured")

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	defaultCurrency = "INR"
	defaultDiscount = "NONE"
)

// ImageUpload is one file from a multipart upload.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type ProductService interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch *models.ProductPatch) (*models.Product, error)
	Archive(ctx context.Context, id uuid.UUID) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (string, error)
	List(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error)

	UpdatePricing(ctx context.Context, id uuid.UUID, patch *models.Pricing) (*models.Pricing, error)
	UpdateInventory(ctx context.Context, id uuid.UUID, patch *models.Inventory) (*models.Inventory, error)
	LowStock(ctx context.Context) ([]models.LowStockItem, error)
	LowStockSummary(ctx context.Context) (*models.LowStockSummary, error)

	UploadImages(ctx context.Context, id uuid.UUID, files []ImageUpload) ([]models.ProductImage, error)
	OpenImage(ctx context.Context, id uuid.UUID, imageID string) (io.ReadCloser, string, error)
	DeleteImage(ctx context.Context, id uuid.UUID, imageID string) error
}

type productService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	minioService MinioService
	cacheService caching.CacheService
	bucket       string
}

// NewProductService wires the product catalog. minioService and
// cacheService may be nil.
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository,
	minioService MinioService, cacheService caching.CacheService, bucket string) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		minioService: minioService,
		cacheService: cacheService,
		bucket:       bucket,
	}
}

func ImageURL(productID uuid.UUID, imageID string) string {
	return fmt.Sprintf("/api/admin/v1/products/%s/images/%s", productID, imageID)
}

func imageObjectName(productID uuid.UUID, imageID string) string {
	return fmt.Sprintf("products/%s/%s", productID, imageID)
}

func validStatus(status string) bool {
	switch status {
	case models.ProductStatusDraft, models.ProductStatusPublished, models.ProductStatusArchived:
		return true
	}
	return false
}

func applyPricingDefaults(p *models.Pricing) {
	if p == nil {
		return
	}
	if p.Currency == nil {
		c := defaultCurrency
		p.Currency = &c
	}
	if p.DiscountType == nil {
		d := defaultDiscount
		p.DiscountType = &d
	}
}

func (s *productService) invalidateDashboard(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.InvalidateDashboard(ctx); err != nil {
		log.Printf("WARN: failed to invalidate dashboard cache: %v", err)
	}
}

func (s *productService) categoryName(ctx context.Context, id uuid.UUID) (string, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrCategoryNotFound
		}
		return "", err
	}
	if category.Archived {
		return "", ErrCategoryNotFound
	}
	return category.Name, nil
}

func (s *productService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, validationError("name is required")
	}
	if product.CategoryID == uuid.Nil {
		return nil, validationError("categoryId is required")
	}
	name, err := s.categoryName(ctx, product.CategoryID)
	if err != nil {
		return nil, err
	}

	product.ID = uuid.New()
	product.CategoryName = name
	product.Status = strings.ToUpper(strings.TrimSpace(product.Status))
	if product.Status == "" {
		product.Status = models.ProductStatusDraft
	}
	if !validStatus(product.Status) {
		return nil, validationError("status must be one of DRAFT, PUBLISHED, ARCHIVED")
	}
	applyPricingDefaults(product.Pricing)
	// images are only added through the upload endpoint
	product.Images = nil

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.invalidateDashboard(ctx)
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Update merges every non-null field of patch into the stored product.
func (s *productService) Update(ctx context.Context, id uuid.UUID, patch *models.ProductPatch) (*models.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, validationError("name must not be blank")
		}
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		product.Description = patch.Description
	}
	if patch.CategoryID != nil && *patch.CategoryID != product.CategoryID {
		name, err := s.categoryName(ctx, *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = *patch.CategoryID
		product.CategoryName = name
	}
	if patch.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*patch.Status))
		if !validStatus(status) {
			return nil, validationError("status must be one of DRAFT, PUBLISHED, ARCHIVED")
		}
		product.Status = status
	}
	if patch.Attributes != nil {
		product.Attributes = patch.Attributes
	}
	if patch.Pricing != nil {
		applyPricingDefaults(patch.Pricing)
		product.Pricing = patch.Pricing
	}
	if patch.Inventory != nil {
		product.Inventory = patch.Inventory
	}
	if patch.Images != nil {
		product.Images = patch.Images
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	s.invalidateDashboard(ctx)
	return product, nil
}

func (s *productService) setStatus(ctx context.Context, id uuid.UUID, status string) error {
	if err := s.productRepo.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to set product status: %w", err)
	}
	s.invalidateDashboard(ctx)
	return nil
}

// Archive is the product delete: the row stays, hidden behind ARCHIVED.
func (s *productService) Archive(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, models.ProductStatusArchived)
}

// SetPublished moves a product to PUBLISHED, or back to DRAFT.
func (s *productService) SetPublished(ctx context.Context, id uuid.UUID, published bool) (string, error) {
	status := models.ProductStatusDraft
	if published {
		status = models.ProductStatusPublished
	}
	if err := s.setStatus(ctx, id, status); err != nil {
		return "", err
	}
	return status, nil
}

func (s *productService) List(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error) {
	if filter.Page < 0 {
		filter.Page = 0
	}
	if filter.Size <= 0 {
		filter.Size = DefaultPageSize
	}
	if filter.Size > MaxPageSize {
		filter.Size = MaxPageSize
	}
	filter.Search = common.SanitizeSearchQuery(filter.Search)

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	content := make([]models.ProductSummary, 0, len(products))
	for _, p := range products {
		categoryName := p.CategoryName
		if categoryName == "" {
			categoryName = "N/A"
		}
		summary := models.ProductSummary{
			ID:           p.ID,
			Name:         p.Name,
			Status:       p.Status,
			CategoryID:   p.CategoryID,
			CategoryName: categoryName,
			ThumbnailURL: p.ThumbnailURL(),
		}
		if p.Pricing != nil {
			summary.Price = p.Pricing.Price
		}
		if p.Inventory != nil {
			summary.StockQuantity = p.Inventory.StockQuantity
		}
		content = append(content, summary)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + filter.Size - 1) / filter.Size
	}
	return &models.ProductPage{
		Content:       content,
		Page:          filter.Page,
		Size:          filter.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

func (s *productService) UpdatePricing(ctx context.Context, id uuid.UUID, patch *models.Pricing) (*models.Pricing, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return nil, validationError("price must not be negative")
	}
	pricing, err := s.productRepo.UpdatePricing(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update pricing: %w", err)
	}
	return pricing, nil
}

func (s *productService) UpdateInventory(ctx context.Context, id uuid.UUID, patch *models.Inventory) (*models.Inventory, error) {
	if patch.StockQuantity != nil && *patch.StockQuantity < 0 {
		return nil, validationError("stockQuantity must not be negative")
	}
	inventory, err := s.productRepo.UpdateInventory(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}
	s.invalidateDashboard(ctx)
	return inventory, nil
}

func (s *productService) LowStock(ctx context.Context) ([]models.LowStockItem, error) {
	return s.productRepo.ListLowStock(ctx)
}

func (s *productService) LowStockSummary(ctx context.Context) (*models.LowStockSummary, error) {
	items, err := s.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return &models.LowStockSummary{TotalLowStock: len(items), Items: items}, nil
}

func (s *productService) UploadImages(ctx context.Context, id uuid.UUID, files []ImageUpload) ([]models.ProductImage, error) {
	if len(files) == 0 {
		return nil, validationError("No files uploaded")
	}
	if s.minioService == nil {
		return nil, ErrImageStorageDisabled
	}
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	startOrder := len(product.Images) + 1
	added := make([]models.ProductImage, 0, len(files))
	for i, f := range files {
		imageID := uuid.NewString()
		if err := s.minioService.Upload(ctx, s.bucket, imageObjectName(id, imageID), f.Reader, f.Size, f.ContentType); err != nil {
			s.discardImages(ctx, id, added)
			return nil, fmt.Errorf("failed to store image %q: %w", f.Filename, err)
		}
		added = append(added, models.ProductImage{
			ID:          imageID,
			URL:         ImageURL(id, imageID),
			SortOrder:   startOrder + i,
			ContentType: f.ContentType,
		})
	}

	images, err := s.productRepo.AppendImages(ctx, id, added)
	if err != nil {
		s.discardImages(ctx, id, added)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to attach images: %w", err)
	}
	return images, nil
}

// discardImages removes objects stored for images that never got attached.
// Failures are logged and left for manual cleanup.
func (s *productService) discardImages(ctx context.Context, id uuid.UUID, images []models.ProductImage) {
	for _, img := range images {
		if err := s.minioService.Delete(ctx, s.bucket, imageObjectName(id, img.ID)); err != nil {
			log.Printf("WARN: failed to remove orphaned image %s: %v", imageObjectName(id, img.ID), err)
		}
	}
}

func (s *productService) OpenImage(ctx context.Context, id uuid.UUID, imageID string) (io.ReadCloser, string, error) {
	if s.minioService == nil {
		return nil, "", ErrImageStorageDisabled
	}
	body, contentType, err := s.minioService.Download(ctx, s.bucket, imageObjectName(id, imageID))
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, "", ErrImageNotFound
		}
		return nil, "", err
	}
	return body, contentType, nil
}

func (s *productService) DeleteImage(ctx context.Context, id uuid.UUID, imageID string) error {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	kept := make([]models.ProductImage, 0, len(product.Images))
	found := false
	for _, img := range product.Images {
		if img.ID == imageID {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return ErrImageNotFound
	}
	if s.minioService == nil {
		return ErrImageStorageDisabled
	}

	if err := s.minioService.Delete(ctx, s.bucket, imageObjectName(id, imageID)); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	if err := s.productRepo.SetImages(ctx, id, kept); err != nil {
		return fmt.Errorf("failed to detach image: %w", err)
	}
	return nil
}
