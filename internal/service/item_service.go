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

type ItemService struct {
	itemRepo     *repository.ItemRepository
	supplierRepo *repository.SupplierRepository
	stockLotRepo *repository.StockLotRepository
	logger       *zap.Logger
}

func NewItemService(
	itemRepo *repository.ItemRepository,
	supplierRepo *repository.SupplierRepository,
	stockLotRepo *repository.StockLotRepository,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
		stockLotRepo: stockLotRepo,
		logger:       logger,
	}
}

func (s *ItemService) Create(ctx context.Context, req *domain.CreateItemRequest) (*domain.ItemDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if req.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(ctx, *req.SupplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSupplierNotFound
			}
			return nil, fmt.Errorf("failed to verify supplier: %w", err)
		}
	}

	item := &domain.Item{
		Name:         req.Name,
		SKU:          req.SKU,
		Description:  req.Description,
		Unit:         req.Unit,
		UnitCost:     req.UnitCost,
		UnitPrice:    req.UnitPrice,
		SupplierID:   req.SupplierID,
		CompanyID:    companyIDOf(uc),
		IsActive:     true,
		ERPReference: req.ERPReference,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return mapper.ToItemDTO(item), nil
}

func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ItemDTO, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return mapper.ToItemDTO(item), nil
}

func (s *ItemService) List(ctx context.Context, search string, page, pageSize int) (*domain.PaginatedResponse, error) {
	items, total, err := s.itemRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	dtos := make([]*domain.ItemDTO, len(items))
	for i := range items {
		dtos[i] = mapper.ToItemDTO(&items[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateItemRequest) (*domain.ItemDTO, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}

	if req.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(ctx, *req.SupplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSupplierNotFound
			}
			return nil, fmt.Errorf("failed to verify supplier: %w", err)
		}
	}

	item.Name = req.Name
	item.SKU = req.SKU
	item.Description = req.Description
	item.Unit = req.Unit
	item.UnitCost = req.UnitCost
	item.UnitPrice = req.UnitPrice
	item.SupplierID = req.SupplierID
	item.Supplier = nil
	item.ERPReference = req.ERPReference
	item.IsActive = req.IsActive

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.itemRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to load item: %w", err)
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate item: %w", err)
	}
	return nil
}

// Availability returns the item's remaining stock at a store
func (s *ItemService) Availability(ctx context.Context, itemID, storeID uuid.UUID) (float64, error) {
	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrItemNotFound
		}
		return 0, fmt.Errorf("failed to load item: %w", err)
	}
	qty, err := s.stockLotRepo.AvailableQuantity(ctx, itemID, storeID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum stock: %w", err)
	}
	return qty, nil
}
