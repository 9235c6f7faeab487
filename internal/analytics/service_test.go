package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"sgspadmin/internal/caching"
	"sgspadmin/internal/models"
	"sgspadmin/internal/repositories"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProducts implements only the counters and lookups the dashboard reads.
type fakeProducts struct {
	repositories.ProductRepository
	total, published, lowStock int64
	byID                       map[uuid.UUID]*models.Product
	countErr                   error
	calls                      int
}

func (f *fakeProducts) Count(context.Context) (int64, error) {
	f.calls++
	return f.total, f.countErr
}

func (f *fakeProducts) CountByStatus(_ context.Context, status string) (int64, error) {
	if status != models.ProductStatusPublished {
		return 0, nil
	}
	return f.published, nil
}

func (f *fakeProducts) CountLowStock(context.Context) (int64, error) {
	return f.lowStock, nil
}

func (f *fakeProducts) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	out := make(map[uuid.UUID]*models.Product)
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeCategories struct {
	repositories.CategoryRepository
	count int64
}

func (f *fakeCategories) Count(context.Context) (int64, error) {
	return f.count, nil
}

type fakeOrders struct {
	orders, today int64
	revenue       float64
	top           []repositories.ProductSales
	err           error
	since         time.Time
}

func (f *fakeOrders) CountOrders(context.Context) (int64, error) {
	return f.orders, f.err
}

func (f *fakeOrders) CountOrdersSince(_ context.Context, since time.Time) (int64, error) {
	f.since = since
	return f.today, f.err
}

func (f *fakeOrders) RevenueSince(context.Context, time.Time) (float64, error) {
	return f.revenue, f.err
}

func (f *fakeOrders) TopSold(_ context.Context, limit int) ([]repositories.ProductSales, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}

var fixedNow = time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

func newCache(t *testing.T) caching.CacheService {
	mr := miniredis.RunT(t)
	return caching.NewCacheServiceFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestSummary_ComputesAllCounters(t *testing.T) {
	orders := &fakeOrders{orders: 120, today: 4, revenue: 5120.5}
	svc := NewDashboardService(
		&fakeProducts{total: 40, published: 25, lowStock: 3},
		&fakeCategories{count: 6},
		orders, nil, func() time.Time { return fixedNow })

	summary, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &models.DashboardSummary{
		TotalProducts:      40,
		PublishedProducts:  25,
		OutOfStockProducts: 3,
		TotalCategories:    6,
		TotalOrders:        120,
		TodayOrders:        4,
		TodayRevenue:       5120.5,
	}, summary)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), orders.since)
}

func TestSummary_OrderFailuresReadAsZero(t *testing.T) {
	svc := NewDashboardService(
		&fakeProducts{total: 2},
		&fakeCategories{count: 1},
		&fakeOrders{orders: 9, err: errors.New(`relation "orders" does not exist`)},
		nil, nil)

	summary, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalProducts)
	assert.Zero(t, summary.TotalOrders)
	assert.Zero(t, summary.TodayOrders)
	assert.Zero(t, summary.TodayRevenue)
}

func TestSummary_CatalogFailureIsAnError(t *testing.T) {
	svc := NewDashboardService(
		&fakeProducts{countErr: errors.New("connection refused")},
		&fakeCategories{}, &fakeOrders{}, nil, nil)

	_, err := svc.Summary(context.Background())

	assert.ErrorContains(t, err, "failed to count products")
}

func TestSummary_ServedFromCache(t *testing.T) {
	products := &fakeProducts{total: 10}
	svc := NewDashboardService(products, &fakeCategories{}, &fakeOrders{}, newCache(t), nil)
	ctx := context.Background()

	first, err := svc.Summary(ctx)
	require.NoError(t, err)
	products.total = 99
	second, err := svc.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(10), first.TotalProducts)
	assert.Equal(t, int64(10), second.TotalProducts)
	assert.Equal(t, 1, products.calls)
}

func TestRefresh_OverwritesCache(t *testing.T) {
	products := &fakeProducts{total: 10}
	cache := newCache(t)
	svc := NewDashboardService(products, &fakeCategories{}, &fakeOrders{}, cache, nil)
	ctx := context.Background()

	_, err := svc.Summary(ctx)
	require.NoError(t, err)
	products.total = 11
	require.NoError(t, svc.Refresh(ctx))

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(11), summary.TotalProducts)

	_, found, err := cache.GetTopProducts(ctx)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestTopProducts_ResolvesNames(t *testing.T) {
	known := uuid.New()
	missing := uuid.New()
	products := &fakeProducts{byID: map[uuid.UUID]*models.Product{
		known: {ID: known, Name: "Banarasi Saree", Images: []models.ProductImage{{URL: "/img/1"}}},
	}}
	orders := &fakeOrders{top: []repositories.ProductSales{
		{ProductID: known, Quantity: 12},
		{ProductID: missing, Quantity: 5},
	}}
	svc := NewDashboardService(products, &fakeCategories{}, orders, nil, nil)

	top := svc.TopProducts(context.Background())

	require.Len(t, top, 2)
	assert.Equal(t, "Banarasi Saree", top[0].Name)
	assert.Equal(t, int64(12), top[0].SoldQuantity)
	require.NotNil(t, top[0].ThumbnailURL)
	assert.Equal(t, "/img/1", *top[0].ThumbnailURL)
	assert.Equal(t, "Unknown", top[1].Name)
	assert.Nil(t, top[1].ThumbnailURL)
}

func TestTopProducts_LimitedToTen(t *testing.T) {
	sales := make([]repositories.ProductSales, 15)
	for i := range sales {
		sales[i] = repositories.ProductSales{ProductID: uuid.New(), Quantity: int64(100 - i)}
	}
	svc := NewDashboardService(&fakeProducts{}, &fakeCategories{}, &fakeOrders{top: sales}, nil, nil)

	assert.Len(t, svc.TopProducts(context.Background()), TopProductsLimit)
}

func TestTopProducts_FailureYieldsEmptyList(t *testing.T) {
	svc := NewDashboardService(&fakeProducts{}, &fakeCategories{},
		&fakeOrders{err: errors.New("boom")}, nil, nil)

	top := svc.TopProducts(context.Background())

	assert.NotNil(t, top)
	assert.Empty(t, top)
}
