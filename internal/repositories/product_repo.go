package repositories

import (
	"context"
	"fmt"
	"strings"

	"sgspadmin/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)

	UpdatePricing(ctx context.Context, id uuid.UUID, patch *models.Pricing) (*models.Pricing, error)
	UpdateInventory(ctx context.Context, id uuid.UUID, patch *models.Inventory) (*models.Inventory, error)
	ListLowStock(ctx context.Context) ([]models.LowStockItem, error)

	AppendImages(ctx context.Context, id uuid.UUID, images []models.ProductImage) ([]models.ProductImage, error)
	SetImages(ctx context.Context, id uuid.UUID, images []models.ProductImage) error

	CountActiveByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountLowStock(ctx context.Context) (int64, error)
}

const productColumns = `id, name, description, category_id, category_name, status, attributes, pricing, inventory, images, created_at, updated_at`

// stock <= threshold, both present; NULL comparisons are false
const lowStockPredicate = `(inventory->>'stockQuantity')::int <= (inventory->>'lowStockThreshold')::int`

type productRepo struct {
	db DBTX
}

func NewProductRepo(db DBTX) ProductRepository {
	return &productRepo{db: db}
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.CategoryName, &p.Status,
		&p.Attributes, &p.Pricing, &p.Inventory, &p.Images, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func collectProducts(rows pgx.Rows) ([]*models.Product, error) {
	defer rows.Close()
	products := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, category_id, category_name, status, attributes, pricing, inventory, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	if p.Images == nil {
		p.Images = []models.ProductImage{}
	}
	return r.db.QueryRow(ctx, query, p.ID, p.Name, p.Description, p.CategoryID, p.CategoryName, p.Status,
		p.Attributes, p.Pricing, p.Inventory, p.Images).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return p, nil
}

func (r *productRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	result := make(map[uuid.UUID]*models.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, category_id = $3, category_name = $4, status = $5,
		    attributes = $6, pricing = $7, inventory = $8, images = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`
	if p.Images == nil {
		p.Images = []models.ProductImage{}
	}
	err := r.db.QueryRow(ctx, query, p.Name, p.Description, p.CategoryID, p.CategoryName, p.Status,
		p.Attributes, p.Pricing, p.Inventory, p.Images, p.ID).Scan(&p.UpdatedAt)
	return mapNoRows(err)
}

func (r *productRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

// buildProductFilter renders the WHERE clause shared by the list and its count.
func buildProductFilter(filter models.ProductFilter) (string, []any) {
	var conds []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conds = append(conds, "UPPER(status) = UPPER("+next(filter.Status)+")")
	}
	if filter.CategoryID != nil {
		conds = append(conds, "category_id = "+next(*filter.CategoryID))
	}
	if filter.Color != "" {
		conds = append(conds, "LOWER(attributes->>'color') = LOWER("+next(filter.Color)+")")
	}
	if filter.Search != "" {
		p := next("%" + filter.Search + "%")
		conds = append(conds, "(name ILIKE "+p+" OR description ILIKE "+p+")")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of matching products, newest first, and the total match count.
func (r *productRepo) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	where, args := buildProductFilter(filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Size, filter.Page*filter.Size)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// UpdatePricing merges the non-null fields of patch into the stored pricing.
func (r *productRepo) UpdatePricing(ctx context.Context, id uuid.UUID, patch *models.Pricing) (*models.Pricing, error) {
	query := `
		UPDATE products
		SET pricing = COALESCE(pricing, '{}'::jsonb) || jsonb_strip_nulls($1::jsonb), updated_at = NOW()
		WHERE id = $2
		RETURNING pricing
	`
	var pricing *models.Pricing
	if err := r.db.QueryRow(ctx, query, patch, id).Scan(&pricing); err != nil {
		return nil, mapNoRows(err)
	}
	return pricing, nil
}

// UpdateInventory merges the non-null fields of patch into the stored inventory.
func (r *productRepo) UpdateInventory(ctx context.Context, id uuid.UUID, patch *models.Inventory) (*models.Inventory, error) {
	query := `
		UPDATE products
		SET inventory = COALESCE(inventory, '{}'::jsonb) || jsonb_strip_nulls($1::jsonb), updated_at = NOW()
		WHERE id = $2
		RETURNING inventory
	`
	var inventory *models.Inventory
	if err := r.db.QueryRow(ctx, query, patch, id).Scan(&inventory); err != nil {
		return nil, mapNoRows(err)
	}
	return inventory, nil
}

func (r *productRepo) ListLowStock(ctx context.Context) ([]models.LowStockItem, error) {
	query := `
		SELECT id, name, (inventory->>'stockQuantity')::int
		FROM products
		WHERE ` + lowStockPredicate + `
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.LowStockItem{}
	for rows.Next() {
		var item models.LowStockItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.StockQuantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *productRepo) AppendImages(ctx context.Context, id uuid.UUID, images []models.ProductImage) ([]models.ProductImage, error) {
	query := `
		UPDATE products
		SET images = COALESCE(images, '[]'::jsonb) || $1::jsonb, updated_at = NOW()
		WHERE id = $2
		RETURNING images
	`
	var all []models.ProductImage
	if err := r.db.QueryRow(ctx, query, images, id).Scan(&all); err != nil {
		return nil, mapNoRows(err)
	}
	return all, nil
}

func (r *productRepo) SetImages(ctx context.Context, id uuid.UUID, images []models.ProductImage) error {
	if images == nil {
		images = []models.ProductImage{}
	}
	tag, err := r.db.Exec(ctx, `UPDATE products SET images = $1, updated_at = NOW() WHERE id = $2`, images, id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *productRepo) CountActiveByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1 AND status <> 'ARCHIVED'`, categoryID).Scan(&count)
	return count, err
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

func (r *productRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE status = $1`, status).Scan(&count)
	return count, err
}

func (r *productRepo) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+lowStockPredicate).Scan(&count)
	return count, err
}
