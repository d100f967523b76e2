package service

import (
	"context"
	"errors"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/repository"
)

type NotificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	list, err := s.repo.ListNotifications(ctx, userID)
	if err != nil {
		return nil, domain.Persistence("list notifications", err)
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	err := s.repo.MarkRead(ctx, userID, id)
	if err != nil && !errors.Is(err, repository.ErrNotificationNotFound) {
		return domain.Persistence("mark notification read", err)
	}
	return err
}
