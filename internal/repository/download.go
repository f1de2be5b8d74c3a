package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"digistore/internal/model"
)

// ErrDownloadLimitReached is returned by IncrementCount when the guarded
// update matched no row because download_count already hit the limit.
var ErrDownloadLimitReached = errors.New("download limit reached")

type DownloadRepository interface {
	CreateGrant(ctx context.Context, grant *model.DownloadGrant) error
	FindGrantByID(ctx context.Context, grantID string) (*model.DownloadGrant, error)
	ListGrantsByUser(ctx context.Context, userID string) ([]*model.DownloadGrant, error)
	IncrementCount(ctx context.Context, grantID string, limit *int) error
}

type downloadRepoImpl struct {
	db *gorm.DB
}

func NewDownloadRepository(db *gorm.DB) DownloadRepository {
	return &downloadRepoImpl{
		db: db,
	}
}

// CreateGrant inserts a grant, silently keeping the existing row when the
// (user, product, order) triple already has one. Re-running provisioning for
// a completed order therefore never duplicates grants.
func (r *downloadRepoImpl) CreateGrant(ctx context.Context, grant *model.DownloadGrant) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "order_id"}},
		DoNothing: true,
	}).Create(grant).Error
}

func (r *downloadRepoImpl) FindGrantByID(ctx context.Context, grantID string) (*model.DownloadGrant, error) {
	var grant model.DownloadGrant
	err := r.db.WithContext(ctx).
		Where("id = ?", grantID).
		First(&grant).Error

	if err != nil {
		return nil, err
	}

	return &grant, nil
}

func (r *downloadRepoImpl) ListGrantsByUser(ctx context.Context, userID string) ([]*model.DownloadGrant, error) {
	var grants []*model.DownloadGrant
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&grants).Error

	if err != nil {
		return nil, err
	}

	return grants, nil
}

// IncrementCount bumps download_count through a conditional UPDATE. With a
// limit set, the guard re-checks the cap inside the statement so concurrent
// downloads cannot push the counter past it.
func (r *downloadRepoImpl) IncrementCount(ctx context.Context, grantID string, limit *int) error {
	q := r.db.WithContext(ctx).Model(&model.DownloadGrant{}).
		Where("id = ?", grantID)
	if limit != nil {
		q = q.Where("download_count < ?", *limit)
	}

	result := q.Update("download_count", gorm.Expr("download_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if limit != nil {
			return ErrDownloadLimitReached
		}
		return gorm.ErrRecordNotFound
	}

	return nil
}
