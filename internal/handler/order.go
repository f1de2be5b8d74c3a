package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/dto"
	"digistore/internal/middleware"
	"digistore/internal/model"
	"digistore/internal/repository"
	"digistore/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.orderService.Checkout(ctx, middleware.UserID(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetOrder(ctx, c.Param("id"), middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListUserOrders(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	filter := repository.OrderFilter{
		Status:        model.OrderStatus(c.QueryParam("status")),
		PaymentStatus: model.PaymentStatus(c.QueryParam("payment_status")),
		Limit:         intQuery(c, "limit", 50),
		Offset:        intQuery(c, "offset", 0),
	}

	orders, err := h.orderService.ListOrders(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.orderService.UpdateOrderStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdatePaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdatePaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.orderService.UpdatePaymentStatus(ctx, c.Param("id"), req.PaymentStatus)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}
