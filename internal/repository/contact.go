package repository

import (
	"context"

	"gorm.io/gorm"

	"digistore/internal/model"
)

type ContactRepository interface {
	Create(ctx context.Context, message *model.ContactMessage) error
	FindByID(ctx context.Context, id string) (*model.ContactMessage, error)
	List(ctx context.Context, unreadOnly bool) ([]*model.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
}

type contactRepoImpl struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepoImpl{
		db: db,
	}
}

func (r *contactRepoImpl) Create(ctx context.Context, message *model.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *contactRepoImpl) FindByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	var message model.ContactMessage
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&message).Error

	if err != nil {
		return nil, err
	}

	return &message, nil
}

func (r *contactRepoImpl) List(ctx context.Context, unreadOnly bool) ([]*model.ContactMessage, error) {
	q := r.db.WithContext(ctx)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var messages []*model.ContactMessage
	err := q.Order("created_at DESC").Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}

// MarkRead is idempotent; existence is checked by the caller.
func (r *contactRepoImpl) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.ContactMessage{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}
