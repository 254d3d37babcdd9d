package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// CreateBatch persists a fan-out batch in one insert
func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]domain.Notification, int64, error) {
	var notifications []domain.Notification
	var total int64

	query := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("assign_to = ? AND status != ?", userID, domain.NotificationStatusDeleted)
	if unreadOnly {
		query = query.Where("status = ?", domain.NotificationStatusNew)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("assign_to = ? AND status = ?", userID, domain.NotificationStatusNew).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND assign_to = ?", id, userID).
		Updates(map[string]interface{}{
			"status":  domain.NotificationStatusRead,
			"read_at": now,
		}).Error
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("assign_to = ? AND status = ?", userID, domain.NotificationStatusNew).
		Updates(map[string]interface{}{
			"status":  domain.NotificationStatusRead,
			"read_at": now,
		}).Error
}

func (r *NotificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND assign_to = ?", id, userID).
		Update("status", domain.NotificationStatusDeleted).Error
}
