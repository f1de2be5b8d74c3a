package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem holds one product per user; adding the same product again merges
// quantities through an atomic upsert in CartRepository.AddItem.
type CartItem struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index;uniqueIndex:ux_cart_items_user_product" json:"user_id"`
	ProductID string    `gorm:"size:36;not null;uniqueIndex:ux_cart_items_user_product" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
