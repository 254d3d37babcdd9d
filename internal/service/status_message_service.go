package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/cache"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/mapper"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
)

// StatusMessageService manages the configurable status display texts
type StatusMessageService struct {
	statusRepo *repository.StatusMessageRepository
	cache      *cache.Cache
	logger     *zap.Logger
}

func NewStatusMessageService(statusRepo *repository.StatusMessageRepository, cacheClient *cache.Cache, logger *zap.Logger) *StatusMessageService {
	return &StatusMessageService{statusRepo: statusRepo, cache: cacheClient, logger: logger}
}

func (s *StatusMessageService) ListByCategory(ctx context.Context, category string) ([]*domain.StatusMessageDTO, error) {
	statuses, err := s.statusRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list status messages: %w", err)
	}
	dtos := make([]*domain.StatusMessageDTO, len(statuses))
	for i := range statuses {
		dtos[i] = mapper.ToStatusMessageDTO(&statuses[i])
	}
	return dtos, nil
}

// GetByKey resolves a status by (category, subCategory), consulting the cache
// first. Status rows change rarely, so they cache well.
func (s *StatusMessageService) GetByKey(ctx context.Context, category, subCategory string) (*domain.StatusMessageDTO, error) {
	key := cache.StatusMessageKey(category, subCategory)
	if s.cache.Enabled() {
		var cached domain.StatusMessageDTO
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	status, err := s.statusRepo.GetByKey(ctx, category, subCategory)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load status message: %w", err)
	}

	dto := mapper.ToStatusMessageDTO(status)
	if s.cache.Enabled() {
		s.cache.Set(ctx, key, dto)
	}
	return dto, nil
}

func (s *StatusMessageService) Create(ctx context.Context, req *domain.CreateStatusMessageRequest) (*domain.StatusMessageDTO, error) {
	if _, err := s.statusRepo.GetByKey(ctx, req.Category, req.SubCategory); err == nil {
		return nil, fmt.Errorf("%w: status %s/%s already exists", ErrConflict, req.Category, req.SubCategory)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check status message: %w", err)
	}

	status := &domain.StatusMessage{
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Message:     req.Message,
		IsActive:    true,
	}
	if err := s.statusRepo.Create(ctx, status); err != nil {
		return nil, fmt.Errorf("failed to create status message: %w", err)
	}

	s.cache.Invalidate(ctx, cache.StatusMessageKey(req.Category, req.SubCategory))
	return mapper.ToStatusMessageDTO(status), nil
}
