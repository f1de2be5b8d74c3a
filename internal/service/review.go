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

type ReviewService interface {
	AddReview(ctx context.Context, userID, productID string, req *dto.CreateReviewRequest) (*model.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]*model.Review, error)
	ProductRatingSummary(ctx context.Context, productID string) (*repository.RatingSummary, error)
	DeleteReview(ctx context.Context, reviewID, userID string, isAdmin bool) error
}

type reviewServiceImpl struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
) ReviewService {
	return &reviewServiceImpl{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func (s *reviewServiceImpl) AddReview(ctx context.Context, userID, productID string, req *dto.CreateReviewRequest) (*model.Review, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", productID)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	review := &model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidState("product %s already reviewed", productID)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	return review, nil
}

func (s *reviewServiceImpl) ListByProduct(ctx context.Context, productID string) ([]*model.Review, error) {
	return s.reviewRepo.ListByProduct(ctx, productID)
}

func (s *reviewServiceImpl) ProductRatingSummary(ctx context.Context, productID string) (*repository.RatingSummary, error) {
	return s.reviewRepo.Summary(ctx, productID)
}

// DeleteReview removes a review on behalf of its author or an admin.
func (s *reviewServiceImpl) DeleteReview(ctx context.Context, reviewID, userID string, isAdmin bool) error {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("review", reviewID)
		}
		return fmt.Errorf("find review: %w", err)
	}

	if review.UserID != userID && !isAdmin {
		return apperr.InvalidState("review %s belongs to a different user", reviewID)
	}

	return s.reviewRepo.Delete(ctx, reviewID)
}
