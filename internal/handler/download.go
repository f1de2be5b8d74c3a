package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/middleware"
	"digistore/internal/service"
)

type DownloadHandler struct {
	downloadService service.DownloadService
}

func NewDownloadHandler(downloadService service.DownloadService) *DownloadHandler {
	return &DownloadHandler{
		downloadService: downloadService,
	}
}

func (h *DownloadHandler) ListMyGrants(c echo.Context) error {
	ctx := c.Request().Context()

	grants, err := h.downloadService.ListUserGrants(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, grants)
}

// IssueToken mints a short-lived download token for one of the caller's
// grants.
func (h *DownloadHandler) IssueToken(c echo.Context) error {
	ctx := c.Request().Context()

	token, err := h.downloadService.IssueToken(ctx, c.Param("grantID"), middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, token)
}

// Redeem exchanges a download token for the asset location. The token is
// the sole credential, so the route needs no session.
func (h *DownloadHandler) Redeem(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing download token")
	}

	asset, err := h.downloadService.RedeemToken(ctx, token)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, asset)
}
