package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"digistore/internal/apperr"
	"digistore/internal/dto"
	"digistore/internal/model"
)

func orderCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Order{}).Count(&n).Error)
	return n
}

func grantCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.DownloadGrant{}).Count(&n).Error)
	return n
}

func TestCheckoutNoCoupon(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "ebook", "29.99", "", nil)

	order, err := svc.Checkout(ctx, user.ID, &dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: product.ID, Quantity: 2, Price: decimal.RequireFromString("29.99")},
		},
	})
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("59.98")), "total = %s", order.TotalAmount)
	assert.True(t, order.DiscountAmount.IsZero(), "discount = %s", order.DiscountAmount)
	assert.True(t, order.FinalAmount.Equal(decimal.RequireFromString("59.98")), "final = %s", order.FinalAmount)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Nil(t, order.CouponID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestCheckoutWithPercentageCoupon(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "ebook", "29.99", "", nil)
	coupon := seedCoupon(t, db, &model.Coupon{
		Code:               "SAVE10",
		DiscountPercentage: decPtr("10"),
		MinOrderAmount:     decPtr("50"),
		IsActive:           true,
	})

	order, err := svc.Checkout(ctx, user.ID, &dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: product.ID, Quantity: 2, Price: decimal.RequireFromString("29.99")},
		},
		CouponCode: "SAVE10",
	})
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("59.98")), "total = %s", order.TotalAmount)
	assert.True(t, order.DiscountAmount.Equal(decimal.RequireFromString("6.00")), "discount = %s", order.DiscountAmount)
	assert.True(t, order.FinalAmount.Equal(decimal.RequireFromString("53.98")), "final = %s", order.FinalAmount)
	require.NotNil(t, order.CouponID)
	assert.Equal(t, coupon.ID, *order.CouponID)

	var stored model.Coupon
	require.NoError(t, db.First(&stored, "id = ?", coupon.ID).Error)
	assert.Equal(t, 1, stored.CurrentUses)
}

func TestCheckoutCapsFixedDiscount(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "cheap", "30.00", "", nil)
	seedCoupon(t, db, &model.Coupon{
		Code:           "HIGH50",
		DiscountAmount: decPtr("50"),
		IsActive:       true,
	})

	order, err := svc.Checkout(ctx, user.ID, &dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: product.ID, Quantity: 1, Price: decimal.RequireFromString("30.00")},
		},
		CouponCode: "HIGH50",
	})
	require.NoError(t, err)

	assert.True(t, order.DiscountAmount.Equal(decimal.RequireFromString("30.00")), "discount = %s", order.DiscountAmount)
	assert.True(t, order.FinalAmount.IsZero(), "final = %s", order.FinalAmount)
}

func TestCheckoutFailedCouponAbortsOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "ebook", "29.99", "", nil)
	seedCoupon(t, db, &model.Coupon{
		Code:               "EXPIRED",
		DiscountPercentage: decPtr("10"),
		ExpiresAt:          timePtr(time.Now().Add(-time.Hour)),
		IsActive:           true,
	})

	_, err := svc.Checkout(ctx, user.ID, &dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: product.ID, Quantity: 1, Price: decimal.RequireFromString("29.99")},
		},
		CouponCode: "EXPIRED",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindExpired), "got %v", err)
	assert.EqualValues(t, 0, orderCount(t, db))
}

func TestCheckoutUnknownProductAborts(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "ebook", "29.99", "", nil)

	_, err := svc.Checkout(ctx, user.ID, &dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: product.ID, Quantity: 1, Price: decimal.RequireFromString("29.99")},
			{ProductID: "no-such-product", Quantity: 1, Price: decimal.RequireFromString("9.99")},
		},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
	assert.EqualValues(t, 0, orderCount(t, db))
}

func TestCheckoutCouponUsageCap(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "ebook", "29.99", "", nil)
	seedCoupon(t, db, &model.Coupon{
		Code:           "ONEUSE",
		DiscountAmount: decPtr("5"),
		MaxUses:        intPtr(1),
		IsActive:       true,
	})

	req := &dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: product.ID, Quantity: 1, Price: decimal.RequireFromString("29.99")},
		},
		CouponCode: "ONEUSE",
	}

	_, err := svc.Checkout(ctx, user.ID, req)
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, user.ID, req)
	assert.True(t, apperr.IsKind(err, apperr.KindLimitExceeded), "got %v", err)
	assert.EqualValues(t, 1, orderCount(t, db))
}

func TestCompletionProvisionsDigitalGrantsOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "buyer@example.com")
	digital := seedProduct(t, db, "ebook", "19.99", "https://cdn.example.com/ebook.pdf", intPtr(5))
	physical := seedProduct(t, db, "tshirt", "25.00", "", nil)

	order, err := svc.Checkout(ctx, user.ID, &dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: digital.ID, Quantity: 1, Price: decimal.RequireFromString("19.99")},
			{ProductID: physical.ID, Quantity: 1, Price: decimal.RequireFromString("25.00")},
		},
	})
	require.NoError(t, err)

	// half-completed: no grants yet
	_, err = svc.UpdateOrderStatus(ctx, order.ID, model.OrderStatusCompleted)
	require.NoError(t, err)
	assert.EqualValues(t, 0, grantCount(t, db))

	_, err = svc.UpdatePaymentStatus(ctx, order.ID, model.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.EqualValues(t, 1, grantCount(t, db))

	var grant model.DownloadGrant
	require.NoError(t, db.First(&grant).Error)
	assert.Equal(t, user.ID, grant.UserID)
	assert.Equal(t, digital.ID, grant.ProductID)
	assert.Equal(t, order.ID, grant.OrderID)

	// repeating the transition must not duplicate grants
	_, err = svc.UpdatePaymentStatus(ctx, order.ID, model.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.EqualValues(t, 1, grantCount(t, db))
}

func TestCompletionPaymentFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "buyer@example.com")
	digital := seedProduct(t, db, "ebook", "19.99", "https://cdn.example.com/ebook.pdf", nil)

	order, err := svc.Checkout(ctx, user.ID, &dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: digital.ID, Quantity: 1, Price: decimal.RequireFromString("19.99")},
		},
	})
	require.NoError(t, err)

	_, err = svc.UpdatePaymentStatus(ctx, order.ID, model.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.EqualValues(t, 0, grantCount(t, db))

	_, err = svc.UpdateOrderStatus(ctx, order.ID, model.OrderStatusCompleted)
	require.NoError(t, err)
	assert.EqualValues(t, 1, grantCount(t, db))
}

func TestHandlePaymentEventDeduplicates(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "ebook", "19.99", "", nil)

	order, err := svc.Checkout(ctx, user.ID, &dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: product.ID, Quantity: 1, Price: decimal.RequireFromString("19.99")},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.HandlePaymentEvent(ctx, &dto.PaymentEvent{
		EventID:       "evt-1",
		OrderID:       order.ID,
		PaymentStatus: model.PaymentStatusCompleted,
	}))

	// a redelivery with the same event id is acknowledged but not applied
	require.NoError(t, svc.HandlePaymentEvent(ctx, &dto.PaymentEvent{
		EventID:       "evt-1",
		OrderID:       order.ID,
		PaymentStatus: model.PaymentStatusFailed,
	}))

	stored, err := svc.GetOrder(ctx, order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, stored.PaymentStatus)
}

func TestGetOrderWrongOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	product := seedProduct(t, db, "ebook", "19.99", "", nil)

	order, err := svc.Checkout(ctx, owner.ID, &dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: product.ID, Quantity: 1, Price: decimal.RequireFromString("19.99")},
		},
	})
	require.NoError(t, err)

	_, err = svc.GetOrder(ctx, order.ID, other.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState), "got %v", err)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	_, err := svc.UpdateOrderStatus(context.Background(), "any", "shipped")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState), "got %v", err)
}
