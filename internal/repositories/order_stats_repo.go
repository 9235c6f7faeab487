package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProductSales is the quantity of one product sold across all orders.
type ProductSales struct {
	ProductID uuid.UUID
	Quantity  int64
}

// OrderStatsRepository reads the storefront's orders tables. The admin
// service never writes them and they may not exist in every deployment.
type OrderStatsRepository interface {
	CountOrders(ctx context.Context) (int64, error)
	CountOrdersSince(ctx context.Context, since time.Time) (int64, error)
	RevenueSince(ctx context.Context, since time.Time) (float64, error)
	TopSold(ctx context.Context, limit int) ([]ProductSales, error)
}

type orderStatsRepo struct {
	db DBTX
}

func NewOrderStatsRepo(db DBTX) OrderStatsRepository {
	return &orderStatsRepo{db: db}
}

func (r *orderStatsRepo) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

func (r *orderStatsRepo) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}

func (r *orderStatsRepo) RevenueSince(ctx context.Context, since time.Time) (float64, error) {
	var revenue float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_amount), 0)::float8 FROM orders WHERE created_at >= $1`, since).Scan(&revenue)
	return revenue, err
}

func (r *orderStatsRepo) TopSold(ctx context.Context, limit int) ([]ProductSales, error) {
	query := `
		SELECT product_id, SUM(quantity)::bigint AS total_qty
		FROM order_items
		GROUP BY product_id
		ORDER BY total_qty DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := []ProductSales{}
	for rows.Next() {
		var s ProductSales
		if err := rows.Scan(&s.ProductID, &s.Quantity); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
