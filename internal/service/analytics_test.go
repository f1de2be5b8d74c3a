package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digistore/internal/dto"
	"digistore/internal/model"
	"digistore/internal/repository"
)

func TestDashboardAggregates(t *testing.T) {
	db := newTestDB(t)
	orders := newOrderService(t, db)
	svc := NewAnalyticsService(
		repository.NewAnalyticsRepository(db),
		repository.NewOrderRepository(db),
	)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	ebook := seedProduct(t, db, "ebook", "10.00", "", nil)
	tshirt := seedProduct(t, db, "tshirt", "20.00", "", nil)

	complete := func(orderID string) {
		t.Helper()
		_, err := orders.UpdateOrderStatus(ctx, orderID, model.OrderStatusCompleted)
		require.NoError(t, err)
		_, err = orders.UpdatePaymentStatus(ctx, orderID, model.PaymentStatusCompleted)
		require.NoError(t, err)
	}

	first, err := orders.Checkout(ctx, alice.ID, &dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: ebook.ID, Quantity: 2, Price: decimal.RequireFromString("10.00")},
		},
	})
	require.NoError(t, err)
	complete(first.ID)

	// stays pending; must not count toward revenue
	_, err = orders.Checkout(ctx, alice.ID, &dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: tshirt.ID, Quantity: 1, Price: decimal.RequireFromString("20.00")},
		},
	})
	require.NoError(t, err)

	second, err := orders.Checkout(ctx, bob.ID, &dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: tshirt.ID, Quantity: 4, Price: decimal.RequireFromString("20.00")},
			{ProductID: ebook.ID, Quantity: 1, Price: decimal.RequireFromString("10.00")},
		},
	})
	require.NoError(t, err)
	complete(second.ID)

	dashboard, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 3, dashboard.TotalOrders)
	assert.EqualValues(t, 2, dashboard.TotalUsers)
	assert.EqualValues(t, 2, dashboard.TotalProducts)
	assert.EqualValues(t, 0, dashboard.TotalReviews)
	assert.True(t, dashboard.Revenue.Equal(decimal.RequireFromString("110")), "revenue = %s", dashboard.Revenue)
	assert.True(t, dashboard.AverageOrderValue.Equal(decimal.RequireFromString("55")), "aov = %s", dashboard.AverageOrderValue)

	statusCounts := make(map[string]int64, len(dashboard.OrdersByStatus))
	for _, row := range dashboard.OrdersByStatus {
		statusCounts[row.Status] = row.Count
	}
	assert.EqualValues(t, 2, statusCounts["completed"])
	assert.EqualValues(t, 1, statusCounts["pending"])

	require.NotEmpty(t, dashboard.TopProducts)
	assert.Equal(t, tshirt.ID, dashboard.TopProducts[0].ProductID)
	assert.EqualValues(t, 4, dashboard.TopProducts[0].Units)

	assert.Len(t, dashboard.RecentOrders, 3)
}
