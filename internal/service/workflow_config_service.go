package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/auth"
	"github.com/zephyrixtech/test-inventory-sub001/internal/cache"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/mapper"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
	"github.com/zephyrixtech/test-inventory-sub001/internal/workflow"
)

// WorkflowConfigService manages the approval chain configuration. Every write
// re-validates the resulting chain so a broken configuration is rejected at
// edit time, not discovered when someone approves an order.
type WorkflowConfigService struct {
	configRepo *repository.WorkflowConfigRepository
	roleRepo   *repository.RoleRepository
	cache      *cache.Cache
	logger     *zap.Logger
}

func NewWorkflowConfigService(
	configRepo *repository.WorkflowConfigRepository,
	roleRepo *repository.RoleRepository,
	cacheClient *cache.Cache,
	logger *zap.Logger,
) *WorkflowConfigService {
	return &WorkflowConfigService{
		configRepo: configRepo,
		roleRepo:   roleRepo,
		cache:      cacheClient,
		logger:     logger,
	}
}

func (s *WorkflowConfigService) List(ctx context.Context, page, pageSize int) (*domain.PaginatedResponse, error) {
	configs, total, err := s.configRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow configurations: %w", err)
	}
	dtos := make([]*domain.WorkflowConfigDTO, len(configs))
	for i := range configs {
		dtos[i] = mapper.ToWorkflowConfigDTO(&configs[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

func (s *WorkflowConfigService) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkflowConfigDTO, error) {
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load workflow configuration: %w", err)
	}
	return mapper.ToWorkflowConfigDTO(config), nil
}

func (s *WorkflowConfigService) Create(ctx context.Context, req *domain.CreateWorkflowConfigRequest) (*domain.WorkflowConfigDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if _, err := s.roleRepo.GetByID(ctx, req.RoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: role %s", ErrNotFound, req.RoleID)
		}
		return nil, fmt.Errorf("failed to verify role: %w", err)
	}

	config := &domain.WorkflowConfig{
		ProcessName:     req.ProcessName,
		Level:           req.Level,
		RoleID:          req.RoleID,
		OverrideEnabled: req.OverrideEnabled,
		CompanyID:       companyIDOf(uc),
		IsActive:        true,
	}

	if err := s.validateWithChange(ctx, req.ProcessName, config, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.configRepo.Create(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to create workflow configuration: %w", err)
	}

	s.invalidate(ctx, req.ProcessName)
	return s.GetByID(ctx, config.ID)
}

func (s *WorkflowConfigService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateWorkflowConfigRequest) (*domain.WorkflowConfigDTO, error) {
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load workflow configuration: %w", err)
	}

	if _, err := s.roleRepo.GetByID(ctx, req.RoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: role %s", ErrNotFound, req.RoleID)
		}
		return nil, fmt.Errorf("failed to verify role: %w", err)
	}

	config.Level = req.Level
	config.RoleID = req.RoleID
	config.Role = nil
	config.OverrideEnabled = req.OverrideEnabled
	config.IsActive = req.IsActive

	if config.IsActive {
		if err := s.validateWithChange(ctx, config.ProcessName, config, config.ID); err != nil {
			return nil, err
		}
	}
	if err := s.configRepo.Update(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to update workflow configuration: %w", err)
	}

	s.invalidate(ctx, config.ProcessName)
	return s.GetByID(ctx, id)
}

func (s *WorkflowConfigService) Delete(ctx context.Context, id uuid.UUID) error {
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load workflow configuration: %w", err)
	}
	if config.IsActive {
		if err := s.validateRemoval(ctx, config); err != nil {
			return err
		}
	}
	if err := s.configRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workflow configuration: %w", err)
	}
	s.invalidate(ctx, config.ProcessName)
	return nil
}

// validateRemoval checks that deleting an active level leaves the process's
// chain contiguous. Removing the last remaining level is allowed; that
// decommissions the process rather than leaving a gap in it.
func (s *WorkflowConfigService) validateRemoval(ctx context.Context, config *domain.WorkflowConfig) error {
	existing, err := s.configRepo.ListActiveByProcess(ctx, config.ProcessName)
	if err != nil {
		return fmt.Errorf("failed to load workflow configuration: %w", err)
	}

	remaining := make([]domain.WorkflowConfig, 0, len(existing))
	for _, c := range existing {
		if c.ID == config.ID {
			continue
		}
		remaining = append(remaining, c)
	}
	if len(remaining) == 0 {
		return nil
	}
	if _, err := workflow.LevelsFromConfigs(remaining); err != nil {
		return fmt.Errorf("%w: %v", ErrWorkflowConfig, err)
	}
	return nil
}

// validateWithChange checks that the process's active chain remains
// contiguous once the pending change is applied. excludeID skips the row
// being replaced by an update.
func (s *WorkflowConfigService) validateWithChange(ctx context.Context, processName string, change *domain.WorkflowConfig, excludeID uuid.UUID) error {
	existing, err := s.configRepo.ListActiveByProcess(ctx, processName)
	if err != nil {
		return fmt.Errorf("failed to load workflow configuration: %w", err)
	}

	chain := make([]domain.WorkflowConfig, 0, len(existing)+1)
	for _, c := range existing {
		if excludeID != uuid.Nil && c.ID == excludeID {
			continue
		}
		chain = append(chain, c)
	}
	if change.IsActive {
		chain = append(chain, *change)
	}

	if _, err := workflow.LevelsFromConfigs(chain); err != nil {
		return fmt.Errorf("%w: %v", ErrWorkflowConfig, err)
	}
	return nil
}

func (s *WorkflowConfigService) invalidate(ctx context.Context, processName string) {
	s.cache.Invalidate(ctx, cache.WorkflowConfigKey(processName))
}
