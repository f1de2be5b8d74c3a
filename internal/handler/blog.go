package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/dto"
	"digistore/internal/repository"
	"digistore/internal/service"
)

type BlogHandler struct {
	blogService service.BlogService
}

func NewBlogHandler(blogService service.BlogService) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
	}
}

// ListPosts serves the public feed: published posts only.
func (h *BlogHandler) ListPosts(c echo.Context) error {
	ctx := c.Request().Context()

	filter := repository.BlogFilter{
		PublishedOnly: true,
		Limit:         intQuery(c, "limit", 20),
		Offset:        intQuery(c, "offset", 0),
	}

	posts, err := h.blogService.ListPosts(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, posts)
}

// ListAllPosts is the admin listing and includes drafts.
func (h *BlogHandler) ListAllPosts(c echo.Context) error {
	ctx := c.Request().Context()

	filter := repository.BlogFilter{
		Limit:  intQuery(c, "limit", 20),
		Offset: intQuery(c, "offset", 0),
	}

	posts, err := h.blogService.ListPosts(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, posts)
}

func (h *BlogHandler) GetPost(c echo.Context) error {
	ctx := c.Request().Context()

	post, err := h.blogService.GetPostBySlug(ctx, c.Param("slug"), false)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, post)
}

func (h *BlogHandler) CreatePost(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateBlogPostRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.blogService.CreatePost(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, post)
}

func (h *BlogHandler) UpdatePost(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateBlogPostRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.blogService.UpdatePost(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, post)
}

func (h *BlogHandler) DeletePost(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.blogService.DeletePost(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
