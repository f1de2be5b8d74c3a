package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/dto"
	"digistore/internal/middleware"
	"digistore/internal/service"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.GetCart(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	userID := middleware.UserID(c)
	if err := h.cartService.AddItem(ctx, userID, &req); err != nil {
		return err
	}

	cart, err := h.cartService.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	userID := middleware.UserID(c)
	if err := h.cartService.UpdateItemQuantity(ctx, userID, c.Param("productID"), req.Quantity); err != nil {
		return err
	}

	cart, err := h.cartService.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.cartService.RemoveItem(ctx, middleware.UserID(c), c.Param("productID")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.cartService.ClearCart(ctx, middleware.UserID(c)); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
