package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

type WorkflowConfigRepository struct {
	db *gorm.DB
}

func NewWorkflowConfigRepository(db *gorm.DB) *WorkflowConfigRepository {
	return &WorkflowConfigRepository{db: db}
}

// ListActiveByProcess returns the active configuration rows for a process,
// ordered by approval level
func (r *WorkflowConfigRepository) ListActiveByProcess(ctx context.Context, processName string) ([]domain.WorkflowConfig, error) {
	var configs []domain.WorkflowConfig
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("process_name = ? AND is_active = ?", processName, true).
		Order("level ASC").
		Find(&configs).Error
	return configs, err
}

func (r *WorkflowConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkflowConfig, error) {
	var config domain.WorkflowConfig
	err := r.db.WithContext(ctx).Preload("Role").First(&config, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *WorkflowConfigRepository) List(ctx context.Context, page, pageSize int) ([]domain.WorkflowConfig, int64, error) {
	var configs []domain.WorkflowConfig
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.WorkflowConfig{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Role").
		Offset(offset).Limit(pageSize).
		Order("process_name ASC, level ASC").
		Find(&configs).Error
	return configs, total, err
}

func (r *WorkflowConfigRepository) Create(ctx context.Context, config *domain.WorkflowConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}

func (r *WorkflowConfigRepository) Update(ctx context.Context, config *domain.WorkflowConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

func (r *WorkflowConfigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.WorkflowConfig{}, "id = ?", id).Error
}
