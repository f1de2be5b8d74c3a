package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/dto"
	"digistore/internal/service"
)

type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

func (h *ContactHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ContactRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	message, err := h.contactService.Submit(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, message)
}

func (h *ContactHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	unreadOnly := c.QueryParam("unread") == "true"

	messages, err := h.contactService.List(ctx, unreadOnly)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messages)
}

func (h *ContactHandler) MarkRead(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.contactService.MarkRead(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "read",
	})
}
