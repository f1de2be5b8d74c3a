package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/dto"
	"digistore/internal/service"
)

type SettingHandler struct {
	settingService service.SettingService
}

func NewSettingHandler(settingService service.SettingService) *SettingHandler {
	return &SettingHandler{
		settingService: settingService,
	}
}

func (h *SettingHandler) All(c echo.Context) error {
	ctx := c.Request().Context()

	settings, err := h.settingService.All(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, settings)
}

func (h *SettingHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	setting, err := h.settingService.Get(ctx, c.Param("key"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, setting)
}

func (h *SettingHandler) Set(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SetSettingRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	setting, err := h.settingService.Set(ctx, c.Param("key"), req.Value)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, setting)
}
