package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"digistore/internal/apperr"
	"digistore/internal/dto"
	"digistore/internal/model"
	"digistore/internal/repository"
)

type BlogService interface {
	CreatePost(ctx context.Context, req *dto.CreateBlogPostRequest) (*model.BlogPost, error)
	UpdatePost(ctx context.Context, id string, req *dto.UpdateBlogPostRequest) (*model.BlogPost, error)
	DeletePost(ctx context.Context, id string) error
	// GetPostBySlug hides unpublished drafts unless includeUnpublished is
	// set (admin views).
	GetPostBySlug(ctx context.Context, slug string, includeUnpublished bool) (*model.BlogPost, error)
	ListPosts(ctx context.Context, filter repository.BlogFilter) ([]*model.BlogPost, error)
}

type blogServiceImpl struct {
	blogRepo repository.BlogRepository
}

func NewBlogService(blogRepo repository.BlogRepository) BlogService {
	return &blogServiceImpl{
		blogRepo: blogRepo,
	}
}

func (s *blogServiceImpl) CreatePost(ctx context.Context, req *dto.CreateBlogPostRequest) (*model.BlogPost, error) {
	post := &model.BlogPost{
		Title:   req.Title,
		Slug:    req.Slug,
		Content: req.Content,
		Excerpt: req.Excerpt,
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	if err := s.blogRepo.Create(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidState("blog post slug %s already exists", req.Slug)
		}
		return nil, fmt.Errorf("create blog post: %w", err)
	}
	return post, nil
}

func (s *blogServiceImpl) UpdatePost(ctx context.Context, id string, req *dto.UpdateBlogPostRequest) (*model.BlogPost, error) {
	post, err := s.blogRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("blog post", id)
		}
		return nil, fmt.Errorf("find blog post: %w", err)
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Slug != nil {
		post.Slug = *req.Slug
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	if err := s.blogRepo.Save(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidState("blog post slug %s already exists", post.Slug)
		}
		return nil, fmt.Errorf("save blog post: %w", err)
	}
	return post, nil
}

func (s *blogServiceImpl) DeletePost(ctx context.Context, id string) error {
	err := s.blogRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("blog post", id)
	}
	return err
}

func (s *blogServiceImpl) GetPostBySlug(ctx context.Context, slug string, includeUnpublished bool) (*model.BlogPost, error) {
	post, err := s.blogRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("blog post", slug)
		}
		return nil, fmt.Errorf("find blog post by slug: %w", err)
	}

	if !post.IsPublished && !includeUnpublished {
		return nil, apperr.NotFound("blog post", slug)
	}
	return post, nil
}

func (s *blogServiceImpl) ListPosts(ctx context.Context, filter repository.BlogFilter) ([]*model.BlogPost, error) {
	return s.blogRepo.List(ctx, filter)
}
