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

type SupplierService struct {
	supplierRepo *repository.SupplierRepository
	logger       *zap.Logger
}

func NewSupplierService(supplierRepo *repository.SupplierRepository, logger *zap.Logger) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo, logger: logger}
}

func (s *SupplierService) Create(ctx context.Context, req *domain.CreateSupplierRequest) (*domain.SupplierDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if req.OrgNumber != "" {
		if _, err := s.supplierRepo.GetByOrgNumber(ctx, req.OrgNumber); err == nil {
			return nil, fmt.Errorf("%w: supplier with org number %s already exists", ErrConflict, req.OrgNumber)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check org number: %w", err)
		}
	}

	supplier := &domain.Supplier{
		Name:          req.Name,
		OrgNumber:     req.OrgNumber,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		Country:       req.Country,
		ContactPerson: req.ContactPerson,
		Status:        domain.SupplierStatusActive,
		CompanyID:     companyIDOf(uc),
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return mapper.ToSupplierDTO(supplier), nil
}

func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SupplierDTO, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}
	return mapper.ToSupplierDTO(supplier), nil
}

func (s *SupplierService) List(ctx context.Context, search string, status domain.SupplierStatus, page, pageSize int) (*domain.PaginatedResponse, error) {
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid supplier status %q", ErrInvalidInput, status)
	}
	suppliers, total, err := s.supplierRepo.List(ctx, search, status, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	dtos := make([]*domain.SupplierDTO, len(suppliers))
	for i := range suppliers {
		dtos[i] = mapper.ToSupplierDTO(&suppliers[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateSupplierRequest) (*domain.SupplierDTO, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}

	supplier.Name = req.Name
	supplier.OrgNumber = req.OrgNumber
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.City = req.City
	supplier.Country = req.Country
	supplier.ContactPerson = req.ContactPerson
	if req.Status != "" {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: invalid supplier status %q", ErrInvalidInput, req.Status)
		}
		supplier.Status = req.Status
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return mapper.ToSupplierDTO(supplier), nil
}

func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.supplierRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSupplierNotFound
		}
		return fmt.Errorf("failed to load supplier: %w", err)
	}
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate supplier: %w", err)
	}
	return nil
}
