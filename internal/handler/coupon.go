package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/dto"
	"digistore/internal/service"
)

type CouponHandler struct {
	couponService service.CouponService
}

func NewCouponHandler(couponService service.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// Validate answers "would this code apply to this amount" without redeeming
// anything. A failing coupon is a 200 with valid=false, not an error.
func (h *CouponHandler) Validate(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ValidateCouponRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.couponService.Validate(ctx, req.Code, req.OrderAmount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CouponHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	coupons, err := h.couponService.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, coupons)
}

func (h *CouponHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	coupon, err := h.couponService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, coupon)
}

func (h *CouponHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateCouponRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	coupon, err := h.couponService.Create(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, coupon)
}

func (h *CouponHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateCouponRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	coupon, err := h.couponService.Update(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, coupon)
}

func (h *CouponHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.couponService.Delete(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
