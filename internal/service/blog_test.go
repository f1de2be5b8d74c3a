package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"digistore/internal/apperr"
	"digistore/internal/dto"
	"digistore/internal/repository"
)

func newBlogService(db *gorm.DB) BlogService {
	return NewBlogService(repository.NewBlogRepository(db))
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}

func TestBlogDraftsHiddenFromPublic(t *testing.T) {
	db := newTestDB(t)
	svc := newBlogService(db)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, &dto.CreateBlogPostRequest{
		Title:   "Launch notes",
		Slug:    "launch-notes",
		Content: "We shipped.",
	})
	require.NoError(t, err)

	// posts start as drafts unless explicitly published
	_, err = svc.GetPostBySlug(ctx, "launch-notes", false)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)

	post, err := svc.GetPostBySlug(ctx, "launch-notes", true)
	require.NoError(t, err)
	assert.False(t, post.IsPublished)

	_, err = svc.UpdatePost(ctx, post.ID, &dto.UpdateBlogPostRequest{
		IsPublished: boolPtr(true),
	})
	require.NoError(t, err)

	published, err := svc.GetPostBySlug(ctx, "launch-notes", false)
	require.NoError(t, err)
	assert.Equal(t, "Launch notes", published.Title)
}

func TestBlogListFiltersByPublication(t *testing.T) {
	db := newTestDB(t)
	svc := newBlogService(db)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, &dto.CreateBlogPostRequest{
		Title:       "Public post",
		Slug:        "public-post",
		Content:     "body",
		IsPublished: boolPtr(true),
	})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, &dto.CreateBlogPostRequest{
		Title:   "Draft post",
		Slug:    "draft-post",
		Content: "body",
	})
	require.NoError(t, err)

	public, err := svc.ListPosts(ctx, repository.BlogFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "public-post", public[0].Slug)

	all, err := svc.ListPosts(ctx, repository.BlogFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBlogSlugUniqueness(t *testing.T) {
	db := newTestDB(t)
	svc := newBlogService(db)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, &dto.CreateBlogPostRequest{
		Title:   "First",
		Slug:    "same-slug",
		Content: "body",
	})
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, &dto.CreateBlogPostRequest{
		Title:   "Second",
		Slug:    "same-slug",
		Content: "body",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState), "got %v", err)
}

func TestBlogPartialUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := newBlogService(db)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, &dto.CreateBlogPostRequest{
		Title:   "Original title",
		Slug:    "original",
		Content: "original content",
		Excerpt: "original excerpt",
	})
	require.NoError(t, err)

	updated, err := svc.UpdatePost(ctx, post.ID, &dto.UpdateBlogPostRequest{
		Title: strPtr("New title"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "original content", updated.Content)
	assert.Equal(t, "original excerpt", updated.Excerpt)

	_, err = svc.UpdatePost(ctx, "no-such-post", &dto.UpdateBlogPostRequest{})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
}
