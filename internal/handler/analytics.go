package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/service"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	dashboard, err := h.analyticsService.Dashboard(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dashboard)
}
