package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Order is a financial record: rows are only ever created and updated,
// never deleted. FinalAmount = TotalAmount - DiscountAmount on every path.
type Order struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	UserID         string          `gorm:"size:36;index;not null" json:"user_id"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"final_amount"`
	CouponID       *string         `gorm:"size:36;index" json:"coupon_id,omitempty"`
	Status         OrderStatus     `gorm:"size:32;index;not null;default:'pending'" json:"status"`
	PaymentStatus  PaymentStatus   `gorm:"size:32;index;not null;default:'pending'" json:"payment_status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Completed reports the dual-completion state that triggers download
// provisioning.
func (o *Order) Completed() bool {
	return o.Status == OrderStatusCompleted && o.PaymentStatus == PaymentStatusCompleted
}

// OrderItem snapshots the product and unit price at purchase time.
// Immutable once created.
type OrderItem struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	OrderID   string          `gorm:"size:36;index;not null" json:"order_id"`
	ProductID string          `gorm:"size:36;index;not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// ValidOrderStatus reports whether s is one of the persisted order statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is one of the persisted payment statuses.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}
