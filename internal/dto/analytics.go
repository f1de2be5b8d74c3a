package dto

import (
	"github.com/shopspring/decimal"

	"digistore/internal/model"
	"digistore/internal/repository"
)

// Dashboard aggregates the admin overview. Revenue and the average cover
// orders that are both completed and paid.
type Dashboard struct {
	TotalOrders       int64                     `json:"total_orders"`
	Revenue           decimal.Decimal           `json:"revenue"`
	AverageOrderValue decimal.Decimal           `json:"average_order_value"`
	OrdersByStatus    []repository.StatusCount  `json:"orders_by_status"`
	TopProducts       []repository.ProductSales `json:"top_products"`
	TotalUsers        int64                     `json:"total_users"`
	TotalProducts     int64                     `json:"total_products"`
	TotalReviews      int64                     `json:"total_reviews"`
	RecentOrders      []*model.Order            `json:"recent_orders"`
}
