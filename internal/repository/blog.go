package repository

import (
	"context"

	"gorm.io/gorm"

	"digistore/internal/model"
)

type BlogFilter struct {
	PublishedOnly bool
	Limit         int
	Offset        int
}

type BlogRepository interface {
	Create(ctx context.Context, post *model.BlogPost) error
	Save(ctx context.Context, post *model.BlogPost) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	List(ctx context.Context, filter BlogFilter) ([]*model.BlogPost, error)
}

type blogRepoImpl struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepoImpl{
		db: db,
	}
}

func (r *blogRepoImpl) Create(ctx context.Context, post *model.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *blogRepoImpl) Save(ctx context.Context, post *model.BlogPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *blogRepoImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.BlogPost{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *blogRepoImpl) FindByID(ctx context.Context, id string) (*model.BlogPost, error) {
	var post model.BlogPost
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&post).Error

	if err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *blogRepoImpl) FindBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	var post model.BlogPost
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&post).Error

	if err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *blogRepoImpl) List(ctx context.Context, filter BlogFilter) ([]*model.BlogPost, error) {
	q := r.db.WithContext(ctx).Model(&model.BlogPost{})
	if filter.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var posts []*model.BlogPost
	err := q.Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return posts, nil
}
