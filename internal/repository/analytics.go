package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"digistore/internal/model"
)

// StatusCount is one row of the orders-by-status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ProductSales is one row of the top-products ranking. Units counts items
// sold through orders that are both completed and paid.
type ProductSales struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Units     int64  `json:"units"`
}

type AnalyticsRepository interface {
	CountOrders(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountReviews(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	AverageOrderValue(ctx context.Context) (decimal.Decimal, error)
	OrdersByStatus(ctx context.Context) ([]StatusCount, error)
	TopProducts(ctx context.Context, limit int) ([]ProductSales, error)
}

type analyticsRepoImpl struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepoImpl{
		db: db,
	}
}

func (r *analyticsRepoImpl) CountOrders(ctx context.Context) (int64, error) {
	return r.count(ctx, &model.Order{})
}

func (r *analyticsRepoImpl) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, &model.User{})
}

func (r *analyticsRepoImpl) CountProducts(ctx context.Context) (int64, error) {
	return r.count(ctx, &model.Product{})
}

func (r *analyticsRepoImpl) CountReviews(ctx context.Context) (int64, error) {
	return r.count(ctx, &model.Review{})
}

func (r *analyticsRepoImpl) count(ctx context.Context, m interface{}) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(m).Count(&count).Error
	return count, err
}

// Revenue sums final_amount over orders that are completed and paid.
func (r *analyticsRepoImpl) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var row struct {
		Value decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(final_amount), 0) AS value").
		Where("status = ? AND payment_status = ?", model.OrderStatusCompleted, model.PaymentStatusCompleted).
		Scan(&row).Error

	return row.Value, err
}

func (r *analyticsRepoImpl) AverageOrderValue(ctx context.Context) (decimal.Decimal, error) {
	var row struct {
		Value decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(AVG(final_amount), 0) AS value").
		Where("status = ? AND payment_status = ?", model.OrderStatusCompleted, model.PaymentStatusCompleted).
		Scan(&row).Error

	return row.Value, err
}

func (r *analyticsRepoImpl) OrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *analyticsRepoImpl) TopProducts(ctx context.Context, limit int) ([]ProductSales, error) {
	var rows []ProductSales
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Select("order_items.product_id, products.name, SUM(order_items.quantity) AS units").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ? AND orders.payment_status = ?", model.OrderStatusCompleted, model.PaymentStatusCompleted).
		Group("order_items.product_id, products.name").
		Order("units DESC").
		Limit(limit).
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	return rows, nil
}
