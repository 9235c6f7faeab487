package testhelpers

import (
	"context"
	"testing"

	"sgspadmin/internal/models"
	"sgspadmin/internal/repositories"
	"sgspadmin/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup()

	ctx := context.Background()
	sarees := SetupTestCategory(t, testDB, "Sarees")
	repo := repositories.NewProductRepo(testDB.Pool)

	t.Run("Create", func(t *testing.T) {
		product := NewTestProduct(sarees, "Banarasi Silk Saree", 50, 5)
		require.NoError(t, repo.Create(ctx, product))

		created, err := repo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.Name, created.Name)
		assert.Equal(t, "Sarees", created.CategoryName)
		assert.Equal(t, "silk", created.Attributes["fabric"])
		assert.Equal(t, 1499.0, *created.Pricing.Price)
		assert.Equal(t, 50, *created.Inventory.StockQuantity)
		assert.NotNil(t, created.Images)
		assert.Empty(t, created.Images)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("Partial pricing and inventory merge", func(t *testing.T) {
		product := NewTestProduct(sarees, "Tussar Saree", 20, 5)
		require.NoError(t, repo.Create(ctx, product))

		price := 1999.0
		pricing, err := repo.UpdatePricing(ctx, product.ID, &models.Pricing{Price: &price})
		require.NoError(t, err)
		assert.Equal(t, 1999.0, *pricing.Price)
		assert.Equal(t, "INR", *pricing.Currency)

		stock := 3
		inventory, err := repo.UpdateInventory(ctx, product.ID, &models.Inventory{StockQuantity: &stock})
		require.NoError(t, err)
		assert.Equal(t, 3, *inventory.StockQuantity)
		assert.Equal(t, 5, *inventory.LowStockThreshold)
		assert.NotNil(t, inventory.SKU)
	})

	t.Run("Images append in order", func(t *testing.T) {
		product := NewTestProduct(sarees, "Chanderi Saree", 10, 2)
		require.NoError(t, repo.Create(ctx, product))

		images, err := repo.AppendImages(ctx, product.ID, []models.ProductImage{{ID: "a", SortOrder: 1}})
		require.NoError(t, err)
		require.Len(t, images, 1)

		images, err = repo.AppendImages(ctx, product.ID, []models.ProductImage{{ID: "b", SortOrder: 2}})
		require.NoError(t, err)
		require.Len(t, images, 2)
		assert.Equal(t, "b", images[1].ID)

		require.NoError(t, repo.SetImages(ctx, product.ID, nil))
		reloaded, err := repo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Empty(t, reloaded.Images)
	})
}

func TestProductListAndLowStock(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup()

	ctx := context.Background()
	sarees := SetupTestCategory(t, testDB, "Sarees")
	dupattas := SetupTestCategory(t, testDB, "Dupattas")
	repo := repositories.NewProductRepo(testDB.Pool)

	fixtures := []*models.Product{
		NewTestProduct(sarees, "Red Silk Saree", 2, 5),
		NewTestProduct(sarees, "Green Cotton Saree", 5, 5),
		NewTestProduct(dupattas, "Silk Dupatta", 40, 5),
	}
	fixtures[1].Attributes["color"] = "green"
	fixtures[2].Status = models.ProductStatusPublished
	for _, p := range fixtures {
		require.NoError(t, repo.Create(ctx, p))
	}

	products, total, err := repo.List(ctx, models.ProductFilter{Size: 20})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, products, 3)

	_, total, err = repo.List(ctx, models.ProductFilter{CategoryID: &sarees.ID, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	products, total, err = repo.List(ctx, models.ProductFilter{Color: "GREEN", Size: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Green Cotton Saree", products[0].Name)

	_, total, err = repo.List(ctx, models.ProductFilter{Search: "silk", Status: "published", Size: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	products, total, err = repo.List(ctx, models.ProductFilter{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, products, 1)

	// stock equal to the threshold counts as low
	low, err := repo.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Green Cotton Saree", low[0].Name)
	assert.Equal(t, "Red Silk Saree", low[1].Name)

	count, err := repo.CountLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	published, err := repo.CountByStatus(ctx, models.ProductStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, int64(1), published)
}

func TestCategoryDeleteGuard(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup()

	ctx := context.Background()
	categoryRepo := repositories.NewCategoryRepo(testDB.Pool)
	productRepo := repositories.NewProductRepo(testDB.Pool)
	categories := services.NewCategoryService(categoryRepo, productRepo)

	sarees, err := categories.Create(ctx, &models.CategoryRequest{Name: "Silk Sarees"})
	require.NoError(t, err)
	assert.Equal(t, "silk-sarees", sarees.Slug)

	_, err = categories.Create(ctx, &models.CategoryRequest{Name: "Silk  Sarees"})
	assert.ErrorIs(t, err, services.ErrCategoryExists)

	product := NewTestProduct(sarees, "Banarasi Saree", 10, 2)
	require.NoError(t, productRepo.Create(ctx, product))

	assert.ErrorIs(t, categories.Delete(ctx, sarees.ID), services.ErrCategoryInUse)

	require.NoError(t, productRepo.SetStatus(ctx, product.ID, models.ProductStatusArchived))
	require.NoError(t, categories.Delete(ctx, sarees.ID))

	// the slug is free again once the old category is archived
	again, err := categories.Create(ctx, &models.CategoryRequest{Name: "Silk Sarees"})
	require.NoError(t, err)
	assert.NotEqual(t, sarees.ID, again.ID)

	count, err := categoryRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestInvoiceSequence(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup()

	numbers := services.NewInvoiceNumberService(repositories.NewInvoiceSequenceRepo(testDB.Pool))
	ctx := context.Background()

	first, err := numbers.Next(ctx)
	require.NoError(t, err)
	second, err := numbers.Next(ctx)
	require.NoError(t, err)

	assert.Equal(t, "1", first)
	assert.Equal(t, "2", second)
}

func TestAdminRepositoryDuplicateEmail(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup()

	ctx := context.Background()
	repo := repositories.NewAdminRepo(testDB.Pool)

	first := &models.AdminUser{ID: uuid.New(), Name: "Owner", Email: "owner@sgsp.in", Role: "ADMIN", PasswordHash: "x", Active: true}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.AdminUser{ID: uuid.New(), Name: "Copy", Email: "owner@sgsp.in", Role: "MANAGER", PasswordHash: "y", Active: true}
	assert.ErrorIs(t, repo.Create(ctx, second), repositories.ErrDuplicate)

	stored, err := repo.GetByEmail(ctx, "owner@sgsp.in")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
}
