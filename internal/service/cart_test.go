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
	"digistore/internal/model"
	"digistore/internal/repository"
)

func newCartService(db *gorm.DB) CartService {
	return NewCartService(
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
	)
}

func TestCartSubtotalAndMerge(t *testing.T) {
	db := newTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	user := seedUser(t, db, "buyer@example.com")
	ebook := seedProduct(t, db, "ebook", "19.99", "", nil)
	tshirt := seedProduct(t, db, "tshirt", "25.00", "", nil)

	require.NoError(t, svc.AddItem(ctx, user.ID, &dto.AddCartItemRequest{ProductID: ebook.ID, Quantity: 1}))
	require.NoError(t, svc.AddItem(ctx, user.ID, &dto.AddCartItemRequest{ProductID: tshirt.ID, Quantity: 2}))
	// same product again merges into the existing line
	require.NoError(t, svc.AddItem(ctx, user.ID, &dto.AddCartItemRequest{ProductID: ebook.ID, Quantity: 2}))

	cart, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.True(t, cart.Subtotal.Equal(decimal.RequireFromString("109.97")), "subtotal = %s", cart.Subtotal)

	byProduct := make(map[string]dto.CartLine, len(cart.Items))
	for _, line := range cart.Items {
		byProduct[line.ProductID] = line
	}
	assert.Equal(t, 3, byProduct[ebook.ID].Quantity)
	assert.True(t, byProduct[ebook.ID].LineTotal.Equal(decimal.RequireFromString("59.97")))
	assert.Equal(t, 2, byProduct[tshirt.ID].Quantity)
}

func TestAddItemInactiveProduct(t *testing.T) {
	db := newTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "retired", "9.99", "", nil)
	require.NoError(t, db.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Update("is_active", false).Error)

	err := svc.AddItem(ctx, user.ID, &dto.AddCartItemRequest{ProductID: product.ID, Quantity: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState), "got %v", err)

	err = svc.AddItem(ctx, user.ID, &dto.AddCartItemRequest{ProductID: "no-such-product", Quantity: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
}

func TestUpdateItemQuantityZeroRemoves(t *testing.T) {
	db := newTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "ebook", "19.99", "", nil)

	require.NoError(t, svc.AddItem(ctx, user.ID, &dto.AddCartItemRequest{ProductID: product.ID, Quantity: 2}))
	require.NoError(t, svc.UpdateItemQuantity(ctx, user.ID, product.ID, 5))

	cart, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	require.NoError(t, svc.UpdateItemQuantity(ctx, user.ID, product.ID, 0))

	cart, err = svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Subtotal.IsZero())
}

func TestUpdateItemQuantityMissingItem(t *testing.T) {
	db := newTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "ebook", "19.99", "", nil)

	err := svc.UpdateItemQuantity(ctx, user.ID, product.ID, 3)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
}
