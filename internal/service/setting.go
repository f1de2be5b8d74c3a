package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"digistore/internal/apperr"
	"digistore/internal/model"
	"digistore/internal/repository"
)

// SettingService is the key-value store behind shop configuration pages
// (store name, currency, contact address and the like).
type SettingService interface {
	Get(ctx context.Context, key string) (*model.Setting, error)
	Set(ctx context.Context, key, value string) (*model.Setting, error)
	All(ctx context.Context) ([]*model.Setting, error)
}

type settingServiceImpl struct {
	settingRepo repository.SettingRepository
}

func NewSettingService(settingRepo repository.SettingRepository) SettingService {
	return &settingServiceImpl{
		settingRepo: settingRepo,
	}
}

func (s *settingServiceImpl) Get(ctx context.Context, key string) (*model.Setting, error) {
	setting, err := s.settingRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("setting", key)
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return setting, nil
}

func (s *settingServiceImpl) Set(ctx context.Context, key, value string) (*model.Setting, error) {
	setting := &model.Setting{Key: key, Value: value}
	if err := s.settingRepo.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("upsert setting: %w", err)
	}
	return setting, nil
}

func (s *settingServiceImpl) All(ctx context.Context) ([]*model.Setting, error) {
	return s.settingRepo.All(ctx)
}
