package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"digistore/internal/apperr"
	"digistore/internal/dto"
	"digistore/internal/model"
	"digistore/internal/repository"
)

type CatalogService interface {
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, req *dto.UpdateCategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)

	CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*model.Product, error)
}

type catalogServiceImpl struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
) CatalogService {
	return &catalogServiceImpl{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *catalogServiceImpl) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*model.Category, error) {
	category := &model.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidState("category slug %s already exists", req.Slug)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *catalogServiceImpl) UpdateCategory(ctx context.Context, id string, req *dto.UpdateCategoryRequest) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category", id)
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Slug != nil {
		category.Slug = *req.Slug
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidState("category slug %s already exists", category.Slug)
		}
		return nil, fmt.Errorf("save category: %w", err)
	}
	return category, nil
}

func (s *catalogServiceImpl) DeleteCategory(ctx context.Context, id string) error {
	err := s.categoryRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("category", id)
	}
	return err
}

func (s *catalogServiceImpl) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category", slug)
		}
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return category, nil
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*model.Product, error) {
	if req.Price.LessThanOrEqual(decimal.Zero) {
		return nil, apperr.InvalidState("product price must be positive")
	}
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category", req.CategoryID)
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	product := &model.Product{
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		FileURL:       req.FileURL,
		DownloadLimit: req.DownloadLimit,
		IsActive:      true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidState("product slug %s already exists", req.Slug)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*model.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("category", *req.CategoryID)
			}
			return nil, fmt.Errorf("find category: %w", err)
		}
		product.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Slug != nil {
		product.Slug = *req.Slug
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.LessThanOrEqual(decimal.Zero) {
			return nil, apperr.InvalidState("product price must be positive")
		}
		product.Price = *req.Price
	}
	if req.FileURL != nil {
		product.FileURL = *req.FileURL
	}
	if req.DownloadLimit != nil {
		product.DownloadLimit = req.DownloadLimit
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidState("product slug %s already exists", product.Slug)
		}
		return nil, fmt.Errorf("save product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes the catalog row. Past orders are unaffected: order
// items carry their own price and product snapshot reference.
func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, id string) error {
	err := s.productRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("product", id)
	}
	return err
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", id)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", slug)
		}
		return nil, fmt.Errorf("find product by slug: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*model.Product, error) {
	return s.productRepo.List(ctx, filter)
}
