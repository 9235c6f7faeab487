package models

import "github.com/google/uuid"

type DashboardSummary struct {
	TotalProducts      int64   `json:"totalProducts"`
	PublishedProducts  int64   `json:"publishedProducts"`
	OutOfStockProducts int64   `json:"outOfStockProducts"`
	TotalCategories    int64   `json:"totalCategories"`
	TotalOrders        int64   `json:"totalOrders"`
	TodayOrders        int64   `json:"todayOrders"`
	TodayRevenue       float64 `json:"todayRevenue"`
}

type TopProduct struct {
	ProductID    uuid.UUID `json:"productId"`
	Name         string    `json:"name"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	SoldQuantity int64     `json:"soldQuantity"`
}
