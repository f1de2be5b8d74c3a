package dto

import (
	"time"

	"digistore/internal/model"
)

// GrantValidation reports whether a grant currently authorizes downloads.
type GrantValidation struct {
	Valid  bool                 `json:"valid"`
	Grant  *model.DownloadGrant `json:"grant,omitempty"`
	Reason string               `json:"reason,omitempty"`
}

// DownloadToken is a short-lived signed credential for one grant.
type DownloadToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DownloadAsset is returned on a successful token redemption, after the
// download counter has been advanced.
type DownloadAsset struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	FileURL     string `json:"file_url"`
	// Remaining is nil for unlimited grants.
	Remaining *int `json:"remaining_downloads,omitempty"`
}

// GrantInfo is a grant joined with its product for the account page.
type GrantInfo struct {
	ID            string     `json:"id"`
	OrderID       string     `json:"order_id"`
	ProductID     string     `json:"product_id"`
	ProductName   string     `json:"product_name"`
	ProductSlug   string     `json:"product_slug"`
	DownloadCount int        `json:"download_count"`
	DownloadLimit *int       `json:"download_limit,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
