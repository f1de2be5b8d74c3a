package dto

import "github.com/shopspring/decimal"

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"required,max=255"`
	Description string `json:"description"`
}

// UpdateCategoryRequest is a partial update: nil fields are left unchanged.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Slug        *string `json:"slug" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

type CreateProductRequest struct {
	CategoryID  string          `json:"category_id" validate:"required"`
	Name        string          `json:"name" validate:"required,max=255"`
	Slug        string          `json:"slug" validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	// FileURL marks the product as digital; leave empty for physical goods.
	FileURL       string `json:"file_url" validate:"omitempty,url,max=1024"`
	DownloadLimit *int   `json:"download_limit" validate:"omitempty,gt=0"`
	IsActive      *bool  `json:"is_active"`
}

// UpdateProductRequest is a partial update: nil fields are left unchanged.
type UpdateProductRequest struct {
	CategoryID    *string          `json:"category_id"`
	Name          *string          `json:"name" validate:"omitempty,max=255"`
	Slug          *string          `json:"slug" validate:"omitempty,max=255"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	FileURL       *string          `json:"file_url" validate:"omitempty,max=1024"`
	DownloadLimit *int             `json:"download_limit" validate:"omitempty,gt=0"`
	IsActive      *bool            `json:"is_active"`
}
