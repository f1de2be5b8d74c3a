package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"digistore/internal/model"
)

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status        model.OrderStatus
	PaymentStatus model.PaymentStatus
	Limit         int
	Offset        int
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, orderID string, status model.PaymentStatus) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) List(ctx context.Context, filter OrderFilter) ([]*model.Order, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).Preload("Items")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var orders []*model.Order
	err := q.Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	return r.updateField(ctx, orderID, "status", string(status))
}

func (r *orderRepoImpl) UpdatePaymentStatus(ctx context.Context, orderID string, status model.PaymentStatus) error {
	return r.updateField(ctx, orderID, "payment_status", string(status))
}

// updateField has no RowsAffected check: mysql reports zero changed rows
// when a status is set to its current value, so it cannot distinguish a
// no-op from a missing order. Existence is checked by the caller.
func (r *orderRepoImpl) updateField(ctx context.Context, orderID, column, value string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			column:       value,
			"updated_at": time.Now(),
		}).Error
}
