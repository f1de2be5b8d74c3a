package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/dto"
	"digistore/internal/middleware"
	"digistore/internal/model"
	"digistore/internal/service"
)

type ReviewHandler struct {
	reviewService  service.ReviewService
	catalogService service.CatalogService
}

func NewReviewHandler(reviewService service.ReviewService, catalogService service.CatalogService) *ReviewHandler {
	return &ReviewHandler{
		reviewService:  reviewService,
		catalogService: catalogService,
	}
}

// product resolves the :slug route param. Review storage is keyed by
// product id; the public routes address products by slug.
func (h *ReviewHandler) product(c echo.Context) (*model.Product, error) {
	return h.catalogService.GetProductBySlug(c.Request().Context(), c.Param("slug"))
}

func (h *ReviewHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.product(c)
	if err != nil {
		return err
	}

	review, err := h.reviewService.AddReview(ctx, middleware.UserID(c), product.ID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.product(c)
	if err != nil {
		return err
	}

	reviews, err := h.reviewService.ListByProduct(ctx, product.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Summary(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.product(c)
	if err != nil {
		return err
	}

	summary, err := h.reviewService.ProductRatingSummary(ctx, product.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.reviewService.DeleteReview(ctx, c.Param("id"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
