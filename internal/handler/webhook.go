package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/dto"
	"digistore/internal/service"
)

type WebhookHandler struct {
	orderService service.OrderService
}

func NewWebhookHandler(orderService service.OrderService) *WebhookHandler {
	return &WebhookHandler{
		orderService: orderService,
	}
}

// PaymentEvent ingests a payment notification. Redelivered events are
// acknowledged without being applied twice.
func (h *WebhookHandler) PaymentEvent(c echo.Context) error {
	ctx := c.Request().Context()

	var event dto.PaymentEvent
	if err := c.Bind(&event); err != nil {
		return err
	}
	if err := c.Validate(&event); err != nil {
		return err
	}

	if err := h.orderService.HandlePaymentEvent(ctx, &event); err != nil {
		return err
	}

	return c.NoContent(http.StatusOK)
}
