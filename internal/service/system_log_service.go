package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/mapper"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
)

// SystemLogService exposes the audit trail to administrators
type SystemLogService struct {
	systemLogRepo *repository.SystemLogRepository
	logger        *zap.Logger
}

func NewSystemLogService(systemLogRepo *repository.SystemLogRepository, logger *zap.Logger) *SystemLogService {
	return &SystemLogService{systemLogRepo: systemLogRepo, logger: logger}
}

// Record writes a single audit entry outside any transaction. Workflow and
// stock mutations log inside their own transaction instead, see the
// respective services.
func (s *SystemLogService) Record(ctx context.Context, entry *domain.SystemLog) error {
	if err := s.systemLogRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record system log: %w", err)
	}
	return nil
}

func (s *SystemLogService) List(ctx context.Context, filter repository.SystemLogFilter, page, pageSize int) (*domain.PaginatedResponse, error) {
	logs, total, err := s.systemLogRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list system logs: %w", err)
	}
	dtos := make([]*domain.SystemLogDTO, len(logs))
	for i := range logs {
		dtos[i] = mapper.ToSystemLogDTO(&logs[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}
