package dto

import (
	"github.com/shopspring/decimal"

	"digistore/internal/model"
)

// CheckoutItem is one submitted line item. Price is the unit price the
// client locked in at add-to-cart time; it is not re-derived from the
// catalog at checkout.
type CheckoutItem struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	Price     decimal.Decimal `json:"price" validate:"required"`
}

type CheckoutRequest struct {
	Items      []CheckoutItem `json:"items" validate:"required,min=1,dive"`
	CouponCode string         `json:"coupon_code" validate:"omitempty,max=64"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" validate:"required,oneof=pending completed cancelled refunded"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus model.PaymentStatus `json:"payment_status" validate:"required,oneof=pending completed failed"`
}

// PaymentEvent is the externally-driven payment notification. EventID
// deduplicates redeliveries.
type PaymentEvent struct {
	EventID       string              `json:"event_id" validate:"required,max=128"`
	OrderID       string              `json:"order_id" validate:"required"`
	PaymentStatus model.PaymentStatus `json:"payment_status" validate:"required,oneof=pending completed failed"`
}
