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

type StoreService struct {
	storeRepo    *repository.StoreRepository
	stockLotRepo *repository.StockLotRepository
	logger       *zap.Logger
}

func NewStoreService(storeRepo *repository.StoreRepository, stockLotRepo *repository.StockLotRepository, logger *zap.Logger) *StoreService {
	return &StoreService{storeRepo: storeRepo, stockLotRepo: stockLotRepo, logger: logger}
}

func (s *StoreService) Create(ctx context.Context, req *domain.CreateStoreRequest) (*domain.StoreDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	store := &domain.Store{
		Name:      req.Name,
		Code:      req.Code,
		Address:   req.Address,
		City:      req.City,
		CompanyID: companyIDOf(uc),
		IsActive:  true,
	}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	return mapper.ToStoreDTO(store), nil
}

func (s *StoreService) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoreDTO, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	return mapper.ToStoreDTO(store), nil
}

func (s *StoreService) List(ctx context.Context, page, pageSize int) (*domain.PaginatedResponse, error) {
	stores, total, err := s.storeRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	dtos := make([]*domain.StoreDTO, len(stores))
	for i := range stores {
		dtos[i] = mapper.ToStoreDTO(&stores[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

func (s *StoreService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateStoreRequest) (*domain.StoreDTO, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	store.Name = req.Name
	store.Code = req.Code
	store.Address = req.Address
	store.City = req.City
	store.IsActive = req.IsActive

	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to update store: %w", err)
	}
	return mapper.ToStoreDTO(store), nil
}

func (s *StoreService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.storeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return fmt.Errorf("failed to load store: %w", err)
	}
	if err := s.storeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate store: %w", err)
	}
	return nil
}

// StockLevels lists the store's stock lots with remaining quantities
func (s *StoreService) StockLevels(ctx context.Context, storeID uuid.UUID, page, pageSize int) (*domain.PaginatedResponse, error) {
	if _, err := s.storeRepo.GetByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	lots, total, err := s.stockLotRepo.ListByStore(ctx, storeID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock lots: %w", err)
	}
	dtos := make([]*domain.StockLotDTO, len(lots))
	for i := range lots {
		dtos[i] = mapper.ToStockLotDTO(&lots[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}
