package dto

import "github.com/shopspring/decimal"

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateCartItemRequest sets an absolute quantity; zero or below removes
// the item from the cart.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartLine joins a cart item with its product at current catalog prices.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	Items    []CartLine      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
