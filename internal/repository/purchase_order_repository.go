package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

// ErrVersionConflict is returned when an optimistic concurrency check fails
var ErrVersionConflict = errors.New("purchase order was modified concurrently")

type PurchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

func (r *PurchaseOrderRepository) Create(ctx context.Context, order *domain.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *PurchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Store").
		Preload("OrderStatus").
		Preload("Items.Item").
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_no ASC")
		}).
		Preload("Approvals.Role").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// PurchaseOrderFilter narrows List results
type PurchaseOrderFilter struct {
	SupplierID    *uuid.UUID
	StoreID       *uuid.UUID
	CreatedBy     *uuid.UUID
	OrderStatusID *uuid.UUID
	// PendingRoleID selects orders currently awaiting a role's approval
	PendingRoleID *uuid.UUID
}

func (r *PurchaseOrderRepository) List(ctx context.Context, filter PurchaseOrderFilter, page, pageSize int) ([]domain.PurchaseOrder, int64, error) {
	var orders []domain.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.PurchaseOrder{})
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.OrderStatusID != nil {
		query = query.Where("order_status_id = ?", *filter.OrderStatusID)
	}
	if filter.PendingRoleID != nil {
		query = query.Where("next_level_role_id = ?", *filter.PendingRoleID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Supplier").
		Preload("Store").
		Preload("OrderStatus").
		Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, total, err
}

func (r *PurchaseOrderRepository) Update(ctx context.Context, order *domain.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *PurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.PurchaseOrder{}, "id = ?", id).Error
}

// ReplaceItems swaps the order's line items inside the given transaction
func (r *PurchaseOrderRepository) ReplaceItems(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, items []domain.PurchaseOrderItem) error {
	if err := tx.WithContext(ctx).Delete(&domain.PurchaseOrderItem{}, "purchase_order_id = ?", orderID).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].PurchaseOrderID = orderID
	}
	return tx.WithContext(ctx).Create(&items).Error
}

// UpdateWorkflowState applies a workflow mutation guarded by the optimistic
// version check. The update only lands when the row still carries
// expectedVersion; otherwise ErrVersionConflict is returned and nothing in
// the transaction should be committed.
func (r *PurchaseOrderRepository) UpdateWorkflowState(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, expectedVersion int, fields map[string]interface{}) error {
	fields["version"] = expectedVersion + 1
	fields["updated_at"] = time.Now().UTC()

	result := tx.WithContext(ctx).
		Model(&domain.PurchaseOrder{}).
		Where("id = ? AND version = ?", orderID, expectedVersion).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// CountForYear returns how many orders were created in the given year,
// used to build sequential PO numbers.
func (r *PurchaseOrderRepository) CountForYear(ctx context.Context, year int) (int64, error) {
	var count int64
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	err := r.db.WithContext(ctx).
		Model(&domain.PurchaseOrder{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

// ListPendingSince returns orders that have been awaiting approval since
// before the cutoff, used by the reminder job.
func (r *PurchaseOrderRepository) ListPendingSince(ctx context.Context, cutoff time.Time) ([]domain.PurchaseOrder, error) {
	var orders []domain.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("workflow_id IS NOT NULL AND next_level_role_id IS NOT NULL AND updated_at < ?", cutoff).
		Order("updated_at ASC").
		Find(&orders).Error
	return orders, err
}

// NextPONumber builds the next sequential order number, e.g. "PO-2026-0148"
func (r *PurchaseOrderRepository) NextPONumber(ctx context.Context, now time.Time) (string, error) {
	count, err := r.CountForYear(ctx, now.Year())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PO-%d-%04d", now.Year(), count+1), nil
}
