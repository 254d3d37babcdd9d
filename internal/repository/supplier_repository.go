package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *SupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *SupplierRepository) GetByOrgNumber(ctx context.Context, orgNumber string) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := r.db.WithContext(ctx).First(&supplier, "org_number = ?", orgNumber).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *SupplierRepository) List(ctx context.Context, search string, status domain.SupplierStatus, page, pageSize int) ([]domain.Supplier, int64, error) {
	var suppliers []domain.Supplier
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Supplier{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR org_number ILIKE ?", pattern, pattern)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Offset(offset).Limit(pageSize).
		Order("name ASC").
		Find(&suppliers).Error
	return suppliers, total, err
}

func (r *SupplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

func (r *SupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Supplier{}).
		Where("id = ?", id).
		Update("status", domain.SupplierStatusInactive).Error
}
