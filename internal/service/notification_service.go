package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/auth"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/mapper"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
)

// NotificationService serves each user's notification inbox
type NotificationService struct {
	notifRepo *repository.NotificationRepository
	logger    *zap.Logger
}

func NewNotificationService(notifRepo *repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifRepo: notifRepo, logger: logger}
}

func (s *NotificationService) List(ctx context.Context, unreadOnly bool, page, pageSize int) (*domain.PaginatedResponse, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	notifications, total, err := s.notifRepo.ListByUser(ctx, uc.UserID, unreadOnly, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	dtos := make([]*domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = mapper.ToNotificationDTO(&notifications[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context) (int64, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return 0, ErrUnauthorized
	}
	return s.notifRepo.CountUnread(ctx, uc.UserID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	if _, err := s.notifRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load notification: %w", err)
	}
	return s.notifRepo.MarkAsRead(ctx, id, uc.UserID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context) error {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	return s.notifRepo.MarkAllAsRead(ctx, uc.UserID)
}

func (s *NotificationService) Delete(ctx context.Context, id uuid.UUID) error {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	return s.notifRepo.Delete(ctx, id, uc.UserID)
}
