package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"digistore/internal/apperr"
	"digistore/internal/dto"
	"digistore/internal/model"
	"digistore/internal/repository"
)

var oneHundred = decimal.NewFromInt(100)

type CouponService interface {
	// Evaluate runs the redemption rules for code against orderAmount and
	// returns the coupon with its computed discount. A failed rule comes
	// back as an apperr kind; checkout propagates it and aborts.
	Evaluate(ctx context.Context, code string, orderAmount decimal.Decimal) (*model.Coupon, decimal.Decimal, error)
	// Validate is the non-aborting wrapper around Evaluate for the public
	// endpoint: rule failures land in the result, not in the error.
	Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*dto.CouponValidation, error)
	Create(ctx context.Context, req *dto.CreateCouponRequest) (*model.Coupon, error)
	Update(ctx context.Context, id string, req *dto.UpdateCouponRequest) (*model.Coupon, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Coupon, error)
	List(ctx context.Context) ([]*model.Coupon, error)
}

type couponServiceImpl struct {
	couponRepo repository.CouponRepository
	now        func() time.Time
}

func NewCouponService(couponRepo repository.CouponRepository) CouponService {
	return &couponServiceImpl{
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

// Evaluate applies the rules in order; the first failing rule decides the
// error kind. The discount never exceeds orderAmount.
func (s *couponServiceImpl) Evaluate(ctx context.Context, code string, orderAmount decimal.Decimal) (*model.Coupon, decimal.Decimal, error) {
	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, apperr.NotFound("coupon", code)
		}
		return nil, decimal.Zero, fmt.Errorf("find coupon by code: %w", err)
	}

	if !coupon.IsActive {
		return nil, decimal.Zero, apperr.InvalidState("coupon %s is not active", code)
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(s.now()) {
		return nil, decimal.Zero, apperr.Expired("coupon %s has expired", code)
	}
	if coupon.MaxUses != nil && coupon.CurrentUses >= *coupon.MaxUses {
		return nil, decimal.Zero, apperr.LimitExceeded("coupon %s usage limit reached", code)
	}
	if coupon.MinOrderAmount != nil && orderAmount.LessThan(*coupon.MinOrderAmount) {
		return nil, decimal.Zero, apperr.InvalidState(
			"order amount %s is below the coupon minimum of %s", orderAmount, coupon.MinOrderAmount)
	}

	return coupon, couponDiscount(coupon, orderAmount), nil
}

// couponDiscount computes the discount rounded to cents and capped at
// orderAmount, so a coupon can never produce a negative final amount.
func couponDiscount(coupon *model.Coupon, orderAmount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch {
	case coupon.DiscountPercentage != nil:
		discount = orderAmount.Mul(*coupon.DiscountPercentage).Div(oneHundred).Round(2)
	case coupon.DiscountAmount != nil:
		discount = *coupon.DiscountAmount
	}

	if discount.GreaterThan(orderAmount) {
		discount = orderAmount
	}
	return discount
}

func (s *couponServiceImpl) Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*dto.CouponValidation, error) {
	coupon, discount, err := s.Evaluate(ctx, code, orderAmount)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return &dto.CouponValidation{
				Valid:    false,
				Discount: decimal.Zero,
				Reason:   appErr.Message,
			}, nil
		}
		return nil, err
	}

	return &dto.CouponValidation{
		Valid:    true,
		Discount: discount,
		Coupon:   coupon,
	}, nil
}

func (s *couponServiceImpl) Create(ctx context.Context, req *dto.CreateCouponRequest) (*model.Coupon, error) {
	if err := validateDiscountMode(req.DiscountPercentage, req.DiscountAmount); err != nil {
		return nil, err
	}

	coupon := &model.Coupon{
		Code:               req.Code,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		MinOrderAmount:     req.MinOrderAmount,
		MaxUses:            req.MaxUses,
		ExpiresAt:          req.ExpiresAt,
		IsActive:           true,
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidState("coupon code %s already exists", req.Code)
		}
		return nil, fmt.Errorf("create coupon: %w", err)
	}

	return coupon, nil
}

func (s *couponServiceImpl) Update(ctx context.Context, id string, req *dto.UpdateCouponRequest) (*model.Coupon, error) {
	if req.DiscountPercentage != nil && req.DiscountAmount != nil {
		return nil, apperr.InvalidState("coupon cannot carry both a percentage and a fixed discount")
	}

	coupon, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		coupon.Code = *req.Code
	}
	// Setting one discount mode clears the other; the exactly-one invariant
	// survives any patch.
	if req.DiscountPercentage != nil {
		coupon.DiscountPercentage = req.DiscountPercentage
		coupon.DiscountAmount = nil
	}
	if req.DiscountAmount != nil {
		coupon.DiscountAmount = req.DiscountAmount
		coupon.DiscountPercentage = nil
	}
	if req.MinOrderAmount != nil {
		coupon.MinOrderAmount = req.MinOrderAmount
	}
	if req.MaxUses != nil {
		coupon.MaxUses = req.MaxUses
	}
	if req.ExpiresAt != nil {
		coupon.ExpiresAt = req.ExpiresAt
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := validateDiscountMode(coupon.DiscountPercentage, coupon.DiscountAmount); err != nil {
		return nil, err
	}

	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidState("coupon code %s already exists", coupon.Code)
		}
		return nil, fmt.Errorf("save coupon: %w", err)
	}

	return coupon, nil
}

func (s *couponServiceImpl) Delete(ctx context.Context, id string) error {
	err := s.couponRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("coupon", id)
	}
	return err
}

func (s *couponServiceImpl) Get(ctx context.Context, id string) (*model.Coupon, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("coupon", id)
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	return coupon, nil
}

func (s *couponServiceImpl) List(ctx context.Context) ([]*model.Coupon, error) {
	return s.couponRepo.List(ctx)
}

// validateDiscountMode rejects coupon definitions with zero or two discount
// modes, out-of-range percentages and non-positive amounts.
func validateDiscountMode(percentage, amount *decimal.Decimal) error {
	switch {
	case percentage == nil && amount == nil:
		return apperr.InvalidState("coupon needs a discount percentage or a discount amount")
	case percentage != nil && amount != nil:
		return apperr.InvalidState("coupon cannot carry both a percentage and a fixed discount")
	case percentage != nil && (percentage.LessThanOrEqual(decimal.Zero) || percentage.GreaterThan(oneHundred)):
		return apperr.InvalidState("discount percentage must be between 0 and 100")
	case amount != nil && amount.LessThanOrEqual(decimal.Zero):
		return apperr.InvalidState("discount amount must be positive")
	}
	return nil
}
