package repository

import (
	"context"

	"gorm.io/gorm"

	"digistore/internal/model"
)

// ProductFilter narrows List results. Zero values mean "no restriction".
type ProductFilter struct {
	CategoryID string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Save(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindMany(ctx context.Context, ids []string) ([]*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Save(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepoImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Product{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *productRepoImpl) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, ids []string) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) List(ctx context.Context, filter ProductFilter) ([]*model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var products []*model.Product
	err := q.Order("created_at DESC").Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}
