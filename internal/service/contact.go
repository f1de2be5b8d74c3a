package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"digistore/internal/apperr"
	"digistore/internal/dto"
	"digistore/internal/model"
	"digistore/internal/repository"
)

type ContactService interface {
	Submit(ctx context.Context, req *dto.ContactRequest) (*model.ContactMessage, error)
	List(ctx context.Context, unreadOnly bool) ([]*model.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
}

type contactServiceImpl struct {
	contactRepo repository.ContactRepository
}

func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactServiceImpl{
		contactRepo: contactRepo,
	}
}

func (s *contactServiceImpl) Submit(ctx context.Context, req *dto.ContactRequest) (*model.ContactMessage, error) {
	message := &model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	}
	if err := s.contactRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}
	return message, nil
}

func (s *contactServiceImpl) List(ctx context.Context, unreadOnly bool) ([]*model.ContactMessage, error) {
	return s.contactRepo.List(ctx, unreadOnly)
}

func (s *contactServiceImpl) MarkRead(ctx context.Context, id string) error {
	if _, err := s.contactRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("contact message", id)
		}
		return fmt.Errorf("find contact message: %w", err)
	}

	return s.contactRepo.MarkRead(ctx, id)
}
