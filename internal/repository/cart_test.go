package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"digistore/internal/model"
)

func TestAddItemMergesQuantities(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, &model.CartItem{UserID: "u1", ProductID: "p1", Quantity: 2}))
	require.NoError(t, repo.AddItem(ctx, &model.CartItem{UserID: "u1", ProductID: "p1", Quantity: 3}))

	items, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItemKeepsUsersSeparate(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, &model.CartItem{UserID: "u1", ProductID: "p1", Quantity: 1}))
	require.NoError(t, repo.AddItem(ctx, &model.CartItem{UserID: "u2", ProductID: "p1", Quantity: 4}))

	items, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	items, err = repo.ListByUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestSetQuantityMissingItem(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)

	err := repo.SetQuantity(context.Background(), "u1", "p1", 3)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClearCart(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, &model.CartItem{UserID: "u1", ProductID: "p1", Quantity: 1}))
	require.NoError(t, repo.AddItem(ctx, &model.CartItem{UserID: "u1", ProductID: "p2", Quantity: 2}))
	require.NoError(t, repo.Clear(ctx, "u1"))

	items, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
