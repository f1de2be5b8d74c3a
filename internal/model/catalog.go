package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Slug        string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Product struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	CategoryID  string          `gorm:"size:36;index;not null" json:"category_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Slug        string          `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	// FileURL points at the digital asset. Empty means a physical product
	// that never yields download grants.
	FileURL string `gorm:"size:1024" json:"file_url,omitempty"`
	// DownloadLimit caps downloads per grant; nil means unlimited.
	DownloadLimit *int      `gorm:"" json:"download_limit,omitempty"`
	IsActive      bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Digital reports whether completed orders for this product produce
// download grants.
func (p *Product) Digital() bool {
	return p.FileURL != ""
}
