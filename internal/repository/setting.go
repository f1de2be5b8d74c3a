package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"digistore/internal/model"
)

type SettingRepository interface {
	Get(ctx context.Context, key string) (*model.Setting, error)
	Upsert(ctx context.Context, setting *model.Setting) error
	All(ctx context.Context) ([]*model.Setting, error)
}

type settingRepoImpl struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepoImpl{
		db: db,
	}
}

func (r *settingRepoImpl) Get(ctx context.Context, key string) (*model.Setting, error) {
	var setting model.Setting
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&setting).Error

	if err != nil {
		return nil, err
	}

	return &setting, nil
}

func (r *settingRepoImpl) Upsert(ctx context.Context, setting *model.Setting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      setting.Value,
			"updated_at": time.Now(),
		}),
	}).Create(setting).Error
}

func (r *settingRepoImpl) All(ctx context.Context) ([]*model.Setting, error) {
	var settings []*model.Setting
	err := r.db.WithContext(ctx).
		Order("key").
		Find(&settings).Error

	if err != nil {
		return nil, err
	}

	return settings, nil
}
