package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"digistore/internal/apperr"
	"digistore/internal/dto"
	"digistore/internal/repository"
)

func newCatalogService(db *gorm.DB) CatalogService {
	return NewCatalogService(
		repository.NewCategoryRepository(db),
		repository.NewProductRepository(db),
	)
}

func TestCreateProductValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, &dto.CreateCategoryRequest{
		Name: "Ebooks",
		Slug: "ebooks",
	})
	require.NoError(t, err)

	created, err := svc.CreateProduct(ctx, &dto.CreateProductRequest{
		CategoryID: category.ID,
		Name:       "Go Patterns",
		Slug:       "go-patterns",
		Price:      decimal.RequireFromString("29.99"),
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive, "products default to active")

	_, err = svc.CreateProduct(ctx, &dto.CreateProductRequest{
		CategoryID: category.ID,
		Name:       "Duplicate",
		Slug:       "go-patterns",
		Price:      decimal.RequireFromString("9.99"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState), "got %v", err)

	_, err = svc.CreateProduct(ctx, &dto.CreateProductRequest{
		CategoryID: category.ID,
		Name:       "Free",
		Slug:       "free",
		Price:      decimal.Zero,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState), "got %v", err)

	_, err = svc.CreateProduct(ctx, &dto.CreateProductRequest{
		CategoryID: "no-such-category",
		Name:       "Orphan",
		Slug:       "orphan",
		Price:      decimal.RequireFromString("9.99"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
}

func TestUpdateProductPartial(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)
	ctx := context.Background()

	product := seedProduct(t, db, "go-patterns", "29.99", "", nil)

	// only the submitted fields change
	updated, err := svc.UpdateProduct(ctx, product.ID, &dto.UpdateProductRequest{
		Price: decPtr("24.99"),
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("24.99")))
	assert.Equal(t, product.Name, updated.Name)
	assert.Equal(t, "go-patterns", updated.Slug)
	assert.True(t, updated.IsActive)

	updated, err = svc.UpdateProduct(ctx, product.ID, &dto.UpdateProductRequest{
		IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	stored, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("24.99")))

	_, err = svc.UpdateProduct(ctx, product.ID, &dto.UpdateProductRequest{
		Price: decPtr("0"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState), "got %v", err)

	_, err = svc.UpdateProduct(ctx, "no-such-product", &dto.UpdateProductRequest{})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
}

func TestListProductsActiveFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)
	ctx := context.Background()

	active := seedProduct(t, db, "active", "10.00", "", nil)
	retired := seedProduct(t, db, "retired", "10.00", "", nil)
	_, err := svc.UpdateProduct(ctx, retired.ID, &dto.UpdateProductRequest{
		IsActive: boolPtr(false),
	})
	require.NoError(t, err)

	visible, err := svc.ListProducts(ctx, repository.ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, active.ID, visible[0].ID)

	all, err := svc.ListProducts(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// storefront lookups go by slug
	bySlug, err := svc.GetProductBySlug(ctx, "active")
	require.NoError(t, err)
	assert.Equal(t, active.ID, bySlug.ID)
}

func TestListProductsByCategory(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)
	ctx := context.Background()

	books := seedCategory(t, db, "books")
	games := seedCategory(t, db, "games")

	_, err := svc.CreateProduct(ctx, &dto.CreateProductRequest{
		CategoryID: books.ID,
		Name:       "Novel",
		Slug:       "novel",
		Price:      decimal.RequireFromString("12.00"),
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, &dto.CreateProductRequest{
		CategoryID: games.ID,
		Name:       "Puzzle",
		Slug:       "puzzle",
		Price:      decimal.RequireFromString("8.00"),
	})
	require.NoError(t, err)

	inBooks, err := svc.ListProducts(ctx, repository.ProductFilter{CategoryID: books.ID})
	require.NoError(t, err)
	require.Len(t, inBooks, 1)
	assert.Equal(t, "novel", inBooks[0].Slug)
}

func TestDeleteCategoryMissing(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)

	err := svc.DeleteCategory(context.Background(), "no-such-category")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
}
