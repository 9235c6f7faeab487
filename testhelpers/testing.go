// Package testhelpers provides a migrated PostgreSQL database and catalog
// fixtures for integration tests.
package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"sgspadmin/internal/models"
	"sgspadmin/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB migrates the database named by TEST_DATABASE_URL and returns a
// pool on it. The test is skipped when the variable is unset or -short is
// given. Cleanup empties every table the migrations create.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	if err := database.Migrate(connString, "up"); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := database.NewPool(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := truncateAll(pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to reset test database: %v", err)
	}

	db := &TestDB{Pool: pool}
	db.Cleanup = func() error {
		defer pool.Close()
		return truncateAll(pool)
	}
	return db
}

func truncateAll(pool *pgxpool.Pool) error {
	_, err := pool.Exec(context.Background(), `TRUNCATE products, categories, admin_users, invoice_sequence`)
	return err
}

// SetupTestCategory creates a test category for testing
func SetupTestCategory(t *testing.T, db *TestDB, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		ID:   uuid.New(),
		Name: name,
		Slug: uuid.NewString(),
	}
	query := `
		INSERT INTO categories (id, name, slug, archived, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query, category.ID, category.Name, category.Slug).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return category
}

// NewTestProduct builds an unsaved DRAFT product in category with the given
// stock level and restock threshold.
func NewTestProduct(category *models.Category, name string, stock, threshold int) *models.Product {
	price := 1499.0
	currency := "INR"
	sku := "SKU-" + uuid.NewString()[:8]
	return &models.Product{
		ID:           uuid.New(),
		Name:         name,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Status:       models.ProductStatusDraft,
		Attributes:   map[string]string{"color": "red", "fabric": "silk"},
		Pricing:      &models.Pricing{Price: &price, Currency: &currency},
		Inventory:    &models.Inventory{SKU: &sku, StockQuantity: &stock, LowStockThreshold: &threshold},
	}
}
