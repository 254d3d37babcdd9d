package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

type SystemLogRepository struct {
	db *gorm.DB
}

func NewSystemLogRepository(db *gorm.DB) *SystemLogRepository {
	return &SystemLogRepository{db: db}
}

func (r *SystemLogRepository) Create(ctx context.Context, entry *domain.SystemLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateInTx writes an audit entry inside the caller's transaction so the log
// commits atomically with the action it describes
func (r *SystemLogRepository) CreateInTx(ctx context.Context, tx *gorm.DB, entry *domain.SystemLog) error {
	return tx.WithContext(ctx).Create(entry).Error
}

// SystemLogFilter narrows List results
type SystemLogFilter struct {
	UserID     *uuid.UUID
	EntityType string
	EntityID   *uuid.UUID
	Action     domain.SystemLogAction
	From       *time.Time
	To         *time.Time
}

// ApplySystemLogFilter adds the filter's populated fields as WHERE clauses
func ApplySystemLogFilter(query *gorm.DB, filter SystemLogFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.From != nil {
		query = query.Where("performed_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("performed_at <= ?", *filter.To)
	}
	return query
}

func (r *SystemLogRepository) List(ctx context.Context, filter SystemLogFilter, page, pageSize int) ([]domain.SystemLog, int64, error) {
	var logs []domain.SystemLog
	var total int64

	query := ApplySystemLogFilter(r.db.WithContext(ctx).Model(&domain.SystemLog{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Offset(offset).Limit(pageSize).
		Order("performed_at DESC").
		Find(&logs).Error
	return logs, total, err
}
