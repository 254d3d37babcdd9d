package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

type StatusMessageRepository struct {
	db *gorm.DB
}

func NewStatusMessageRepository(db *gorm.DB) *StatusMessageRepository {
	return &StatusMessageRepository{db: db}
}

// GetByKey looks up a status by its category and sub-category key pair,
// e.g. ("Purchase Order", "level_2_pending")
func (r *StatusMessageRepository) GetByKey(ctx context.Context, category, subCategory string) (*domain.StatusMessage, error) {
	var status domain.StatusMessage
	err := r.db.WithContext(ctx).
		Where("category = ? AND sub_category = ?", category, subCategory).
		First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *StatusMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.StatusMessage, error) {
	var status domain.StatusMessage
	err := r.db.WithContext(ctx).First(&status, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *StatusMessageRepository) ListByCategory(ctx context.Context, category string) ([]domain.StatusMessage, error) {
	var statuses []domain.StatusMessage
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("sub_category ASC").
		Find(&statuses).Error
	return statuses, err
}

func (r *StatusMessageRepository) Create(ctx context.Context, status *domain.StatusMessage) error {
	return r.db.WithContext(ctx).Create(status).Error
}

// EnsureExists creates the status row if the key pair is missing and returns
// the persisted row either way. Workflow transitions rely on level-specific
// keys that may not have been seeded yet.
func (r *StatusMessageRepository) EnsureExists(ctx context.Context, tx *gorm.DB, status *domain.StatusMessage) (*domain.StatusMessage, error) {
	var existing domain.StatusMessage
	err := tx.WithContext(ctx).
		Where("category = ? AND sub_category = ?", status.Category, status.SubCategory).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := tx.WithContext(ctx).Create(status).Error; err != nil {
		return nil, err
	}
	return status, nil
}
