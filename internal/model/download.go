package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DownloadGrant is the access record minted when an order for a digital
// product reaches completed status and completed payment. One grant per
// (user, product, order); the unique index makes re-provisioning a no-op.
type DownloadGrant struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	UserID        string     `gorm:"size:36;not null;index;uniqueIndex:ux_grants_user_product_order" json:"user_id"`
	ProductID     string     `gorm:"size:36;not null;uniqueIndex:ux_grants_user_product_order" json:"product_id"`
	OrderID       string     `gorm:"size:36;not null;uniqueIndex:ux_grants_user_product_order" json:"order_id"`
	DownloadCount int        `gorm:"not null;default:0" json:"download_count"`
	ExpiresAt     *time.Time `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (g *DownloadGrant) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
