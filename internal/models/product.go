package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProductStatusDraft     = "DRAFT"
	ProductStatusPublished = "PUBLISHED"
	ProductStatusArchived  = "ARCHIVED"
)

type Pricing struct {
	Price         *float64 `json:"price"`
	Currency      *string  `json:"currency"`
	DiscountType  *string  `json:"discountType"`
	DiscountValue *float64 `json:"discountValue"`
}

type Inventory struct {
	SKU               *string `json:"sku"`
	StockQuantity     *int    `json:"stockQuantity"`
	LowStockThreshold *int    `json:"lowStockThreshold"`
}

// IsLowStock reports whether stock has fallen to or below the threshold.
// Both values must be present.
func (i *Inventory) IsLowStock() bool {
	if i == nil || i.StockQuantity == nil || i.LowStockThreshold == nil {
		return false
	}
	return *i.StockQuantity <= *i.LowStockThreshold
}

type ProductImage struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	SortOrder   int    `json:"sortOrder"`
	ContentType string `json:"contentType,omitempty"`
}

type Product struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	Name         string            `json:"name" db:"name"`
	Description  *string           `json:"description" db:"description"`
	CategoryID   uuid.UUID         `json:"categoryId" db:"category_id"`
	CategoryName string            `json:"categoryName" db:"category_name"`
	Status       string            `json:"status" db:"status"`
	Attributes   map[string]string `json:"attributes" db:"attributes"`
	Pricing      *Pricing          `json:"pricing" db:"pricing"`
	Inventory    *Inventory        `json:"inventory" db:"inventory"`
	Images       []ProductImage    `json:"images" db:"images"`
	CreatedAt    time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time         `json:"updatedAt" db:"updated_at"`
}

// ThumbnailURL is the URL of the first image, if any.
func (p *Product) ThumbnailURL() *string {
	if len(p.Images) == 0 {
		return nil
	}
	url := p.Images[0].URL
	return &url
}

// ProductPatch carries the non-null fields merged into an existing product.
type ProductPatch struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	CategoryID  *uuid.UUID        `json:"categoryId"`
	Status      *string           `json:"status"`
	Attributes  map[string]string `json:"attributes"`
	Pricing     *Pricing          `json:"pricing"`
	Inventory   *Inventory        `json:"inventory"`
	Images      []ProductImage    `json:"images"`
}

// ProductFilter holds list criteria. Zero values mean "no filter".
type ProductFilter struct {
	Status     string
	CategoryID *uuid.UUID
	Color      string
	Search     string
	Page       int
	Size       int
}

type ProductSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	CategoryID    uuid.UUID `json:"categoryId"`
	CategoryName  string    `json:"categoryName"`
	Price         *float64  `json:"price"`
	StockQuantity *int      `json:"stockQuantity"`
	ThumbnailURL  *string   `json:"thumbnailUrl"`
}

type ProductPage struct {
	Content       []ProductSummary `json:"content"`
	Page          int              `json:"page"`
	Size          int              `json:"size"`
	TotalElements int              `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
}

type LowStockItem struct {
	ProductID     uuid.UUID `json:"productId"`
	Name          string    `json:"name"`
	StockQuantity *int      `json:"stockQuantity"`
}

type LowStockSummary struct {
	TotalLowStock int            `json:"totalLowStock"`
	Items         []LowStockItem `json:"items"`
}
