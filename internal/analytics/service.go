package analytics

import (
	"context"
	"fmt"
	"log"
	"time"

	"sgspadmin/internal/caching"
	"sgspadmin/internal/models"
	"sgspadmin/internal/repositories"

	"github.com/google/uuid"
)

const (
	TopProductsLimit = 10
	summaryCacheTTL  = 10 * time.Minute
	unknownProduct   = "Unknown"
)

// DashboardService aggregates catalog and order metrics for the admin
// dashboard. The orders tables belong to the storefront; when they are
// unreachable the order metrics read as zero rather than failing.
type DashboardService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	orderStats   repositories.OrderStatsRepository
	cacheService caching.CacheService
	clock        func() time.Time
}

func NewDashboardService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository,
	orderStats repositories.OrderStatsRepository, cacheService caching.CacheService, clock func() time.Time) *DashboardService {
	if clock == nil {
		clock = time.Now
	}
	return &DashboardService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		orderStats:   orderStats,
		cacheService: cacheService,
		clock:        clock,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Summary serves the cached summary when present and computes it otherwise.
func (d *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	if d.cacheService != nil {
		cached, err := d.cacheService.GetDashboardSummary(ctx)
		if err != nil {
			log.Printf("WARN: dashboard cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	summary, err := d.computeSummary(ctx)
	if err != nil {
		return nil, err
	}
	d.storeSummary(ctx, summary)
	return summary, nil
}

// Refresh recomputes the summary and overwrites the cached copy.
func (d *DashboardService) Refresh(ctx context.Context) error {
	summary, err := d.computeSummary(ctx)
	if err != nil {
		return err
	}
	d.storeSummary(ctx, summary)

	top := d.computeTopProducts(ctx)
	if d.cacheService != nil {
		if err := d.cacheService.SetTopProducts(ctx, top, summaryCacheTTL); err != nil {
			log.Printf("WARN: failed to cache top products: %v", err)
		}
	}
	return nil
}

func (d *DashboardService) storeSummary(ctx context.Context, summary *models.DashboardSummary) {
	if d.cacheService == nil {
		return
	}
	if err := d.cacheService.SetDashboardSummary(ctx, summary, summaryCacheTTL); err != nil {
		log.Printf("WARN: failed to cache dashboard summary: %v", err)
	}
}

func (d *DashboardService) computeSummary(ctx context.Context) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{}
	var err error

	if summary.TotalProducts, err = d.productRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if summary.PublishedProducts, err = d.productRepo.CountByStatus(ctx, models.ProductStatusPublished); err != nil {
		return nil, fmt.Errorf("failed to count published products: %w", err)
	}
	if summary.OutOfStockProducts, err = d.productRepo.CountLowStock(ctx); err != nil {
		return nil, fmt.Errorf("failed to count low stock products: %w", err)
	}
	if summary.TotalCategories, err = d.categoryRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	since := startOfDay(d.clock())
	if summary.TotalOrders, err = d.orderStats.CountOrders(ctx); err != nil {
		log.Printf("WARN: order count unavailable: %v", err)
		summary.TotalOrders = 0
	}
	if summary.TodayOrders, err = d.orderStats.CountOrdersSince(ctx, since); err != nil {
		log.Printf("WARN: today's order count unavailable: %v", err)
		summary.TodayOrders = 0
	}
	if summary.TodayRevenue, err = d.orderStats.RevenueSince(ctx, since); err != nil {
		log.Printf("WARN: today's revenue unavailable: %v", err)
		summary.TodayRevenue = 0
	}
	return summary, nil
}

// TopProducts lists the best sellers by quantity. It never fails: any
// lookup error yields an empty list.
func (d *DashboardService) TopProducts(ctx context.Context) []models.TopProduct {
	if d.cacheService != nil {
		cached, found, err := d.cacheService.GetTopProducts(ctx)
		if err != nil {
			log.Printf("WARN: top products cache read failed: %v", err)
		} else if found {
			return cached
		}
	}

	top := d.computeTopProducts(ctx)
	if d.cacheService != nil {
		if err := d.cacheService.SetTopProducts(ctx, top, summaryCacheTTL); err != nil {
			log.Printf("WARN: failed to cache top products: %v", err)
		}
	}
	return top
}

func (d *DashboardService) computeTopProducts(ctx context.Context) []models.TopProduct {
	sales, err := d.orderStats.TopSold(ctx, TopProductsLimit)
	if err != nil {
		log.Printf("WARN: top products unavailable: %v", err)
		return []models.TopProduct{}
	}
	if len(sales) == 0 {
		return []models.TopProduct{}
	}

	ids := make([]uuid.UUID, 0, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ProductID)
	}
	products, err := d.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		log.Printf("WARN: failed to load top products: %v", err)
		return []models.TopProduct{}
	}

	top := make([]models.TopProduct, 0, len(sales))
	for _, s := range sales {
		item := models.TopProduct{ProductID: s.ProductID, Name: unknownProduct, SoldQuantity: s.Quantity}
		if p, ok := products[s.ProductID]; ok && p != nil {
			item.Name = p.Name
			item.ThumbnailURL = p.ThumbnailURL()
		}
		top = append(top, item)
	}
	return top
}
