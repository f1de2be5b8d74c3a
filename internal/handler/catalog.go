package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"digistore/internal/dto"
	"digistore/internal/repository"
	"digistore/internal/service"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// intQuery reads a non-negative integer query parameter, falling back to
// def when absent or malformed.
func intQuery(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.catalogService.ListCategories(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()

	category, err := h.catalogService.GetCategoryBySlug(ctx, c.Param("slug"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.catalogService.CreateCategory(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.catalogService.UpdateCategory(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.catalogService.DeleteCategory(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ListProducts serves the public storefront listing: active products only,
// optionally narrowed to one category.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	filter := repository.ProductFilter{
		CategoryID: c.QueryParam("category_id"),
		ActiveOnly: true,
		Limit:      intQuery(c, "limit", 50),
		Offset:     intQuery(c, "offset", 0),
	}

	products, err := h.catalogService.ListProducts(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

// ListAllProducts is the admin listing and includes inactive products.
func (h *CatalogHandler) ListAllProducts(c echo.Context) error {
	ctx := c.Request().Context()

	filter := repository.ProductFilter{
		CategoryID: c.QueryParam("category_id"),
		Limit:      intQuery(c, "limit", 50),
		Offset:     intQuery(c, "offset", 0),
	}

	products, err := h.catalogService.ListProducts(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.catalogService.GetProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.catalogService.CreateProduct(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.catalogService.UpdateProduct(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.catalogService.DeleteProduct(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
