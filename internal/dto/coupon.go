package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"digistore/internal/model"
)

// CreateCouponRequest must carry exactly one of DiscountPercentage and
// DiscountAmount; the service rejects zero or both.
type CreateCouponRequest struct {
	Code               string           `json:"code" validate:"required,max=64"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount"`
	MinOrderAmount     *decimal.Decimal `json:"min_order_amount"`
	MaxUses            *int             `json:"max_uses" validate:"omitempty,gt=0"`
	ExpiresAt          *time.Time       `json:"expires_at"`
	IsActive           *bool            `json:"is_active"`
}

// UpdateCouponRequest is a partial update: nil fields are left unchanged.
// Setting one discount mode clears the other.
type UpdateCouponRequest struct {
	Code               *string          `json:"code" validate:"omitempty,max=64"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount"`
	MinOrderAmount     *decimal.Decimal `json:"min_order_amount"`
	MaxUses            *int             `json:"max_uses" validate:"omitempty,gt=0"`
	ExpiresAt          *time.Time       `json:"expires_at"`
	IsActive           *bool            `json:"is_active"`
}

type ValidateCouponRequest struct {
	Code        string          `json:"code" validate:"required,max=64"`
	OrderAmount decimal.Decimal `json:"order_amount" validate:"required"`
}

// CouponValidation is the evaluation result. A failed rule yields
// Valid=false with a zero discount and the reason; it is not an error.
type CouponValidation struct {
	Valid    bool            `json:"valid"`
	Discount decimal.Decimal `json:"discount"`
	Coupon   *model.Coupon   `json:"coupon,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}
