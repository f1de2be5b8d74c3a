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

type CartService interface {
	// AddItem puts a product into the cart; adding it again merges the
	// quantities atomically.
	AddItem(ctx context.Context, userID string, req *dto.AddCartItemRequest) error
	// UpdateItemQuantity sets an absolute quantity; zero or below removes
	// the item.
	UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	GetCart(ctx context.Context, userID string) (*dto.CartResponse, error)
	ClearCart(ctx context.Context, userID string) error
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, req *dto.AddCartItemRequest) error {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product", req.ProductID)
		}
		return fmt.Errorf("find product: %w", err)
	}
	if !product.IsActive {
		return apperr.InvalidState("product %s is not available", req.ProductID)
	}

	return s.cartRepo.AddItem(ctx, &model.CartItem{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
}

func (s *cartServiceImpl) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	err := s.cartRepo.SetQuantity(ctx, userID, productID, quantity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("cart item", productID)
	}
	return err
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string) error {
	err := s.cartRepo.RemoveItem(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("cart item", productID)
	}
	return err
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*dto.CartResponse, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	resp := &dto.CartResponse{
		Items:    []dto.CartLine{},
		Subtotal: decimal.Zero,
	}
	if len(items) == 0 {
		return resp, nil
	}

	productIDs := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("find cart products: %w", err)
	}
	productByID := make(map[string]*model.Product, len(products))
	for _, product := range products {
		productByID[product.ID] = product
	}

	for _, item := range items {
		product, ok := productByID[item.ProductID]
		if !ok {
			// product removed from the catalog after it was added
			continue
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		resp.Items = append(resp.Items, dto.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Slug:      product.Slug,
			Price:     product.Price,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		resp.Subtotal = resp.Subtotal.Add(lineTotal)
	}

	return resp, nil
}

func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) error {
	return s.cartRepo.Clear(ctx, userID)
}
