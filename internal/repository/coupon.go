package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"digistore/internal/model"
)

// ErrCouponExhausted is returned by RedeemUse when the conditional update
// matched no row: the coupon is gone, inactive, or already at max_uses.
var ErrCouponExhausted = errors.New("coupon exhausted or inactive")

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	Save(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Coupon, error)
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context) ([]*model.Coupon, error)
	RedeemUse(ctx context.Context, tx *gorm.DB, couponID string) error
}

type couponRepoImpl struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepoImpl{
		db: db,
	}
}

func (r *couponRepoImpl) Create(ctx context.Context, coupon *model.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *couponRepoImpl) Save(ctx context.Context, coupon *model.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

func (r *couponRepoImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Coupon{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *couponRepoImpl) FindByID(ctx context.Context, id string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&coupon).Error

	if err != nil {
		return nil, err
	}

	return &coupon, nil
}

func (r *couponRepoImpl) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&coupon).Error

	if err != nil {
		return nil, err
	}

	return &coupon, nil
}

func (r *couponRepoImpl) List(ctx context.Context) ([]*model.Coupon, error) {
	var coupons []*model.Coupon
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&coupons).Error

	if err != nil {
		return nil, err
	}

	return coupons, nil
}

// RedeemUse advances current_uses by one in a single conditional UPDATE so
// two concurrent checkouts cannot both take the last use of a capped coupon.
func (r *couponRepoImpl) RedeemUse(ctx context.Context, tx *gorm.DB, couponID string) error {
	result := tx.WithContext(ctx).Model(&model.Coupon{}).
		Where("id = ? AND is_active = ?", couponID, true).
		Where("max_uses IS NULL OR current_uses < max_uses").
		Updates(map[string]interface{}{
			"current_uses": gorm.Expr("current_uses + ?", 1),
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCouponExhausted
	}

	return nil
}
