package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Coupon carries exactly one discount mode: DiscountPercentage or
// DiscountAmount. Creation-time validation rejects zero or both.
// CurrentUses is only ever advanced through the conditional update in
// CouponRepository.RedeemUse, so it can never pass MaxUses.
type Coupon struct {
	ID                 string           `gorm:"primaryKey;size:36" json:"id"`
	Code               string           `gorm:"size:64;uniqueIndex;not null" json:"code"`
	DiscountPercentage *decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount_percentage,omitempty"`
	DiscountAmount     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"discount_amount,omitempty"`
	MinOrderAmount     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"min_order_amount,omitempty"`
	MaxUses            *int             `gorm:"" json:"max_uses,omitempty"`
	CurrentUses        int              `gorm:"not null;default:0" json:"current_uses"`
	ExpiresAt          *time.Time       `gorm:"index" json:"expires_at,omitempty"`
	IsActive           bool             `gorm:"not null;index" json:"is_active"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
