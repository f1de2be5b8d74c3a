package repository

import (
	"context"

	"gorm.io/gorm"

	"digistore/internal/model"
)

// RatingSummary is the aggregate view of a product's reviews.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Review, error)
	FindByUserAndProduct(ctx context.Context, userID, productID string) (*model.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]*model.Review, error)
	Summary(ctx context.Context, productID string) (*RatingSummary, error)
}

type reviewRepoImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepoImpl{
		db: db,
	}
}

func (r *reviewRepoImpl) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepoImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Review{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *reviewRepoImpl) FindByID(ctx context.Context, id string) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&review).Error

	if err != nil {
		return nil, err
	}

	return &review, nil
}

func (r *reviewRepoImpl) FindByUserAndProduct(ctx context.Context, userID, productID string) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&review).Error

	if err != nil {
		return nil, err
	}

	return &review, nil
}

func (r *reviewRepoImpl) ListByProduct(ctx context.Context, productID string) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error

	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepoImpl) Summary(ctx context.Context, productID string) (*RatingSummary, error) {
	var summary RatingSummary
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&summary).Error

	if err != nil {
		return nil, err
	}

	return &summary, nil
}
