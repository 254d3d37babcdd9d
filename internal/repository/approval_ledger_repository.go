package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

type ApprovalLedgerRepository struct {
	db *gorm.DB
}

func NewApprovalLedgerRepository(db *gorm.DB) *ApprovalLedgerRepository {
	return &ApprovalLedgerRepository{db: db}
}

// ListByOrder returns the order's full ledger in sequence order
func (r *ApprovalLedgerRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.ApprovalLedgerEntry, error) {
	var entries []domain.ApprovalLedgerEntry
	err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", orderID).
		Order("sequence_no ASC").
		Find(&entries).Error
	return entries, err
}

// CreateBatch inserts a contiguous batch of ledger entries inside the given
// transaction. The unique index on (purchase_order_id, sequence_no) rejects
// concurrent writers that computed the same sequence numbers.
func (r *ApprovalLedgerRepository) CreateBatch(ctx context.Context, tx *gorm.DB, entries []domain.ApprovalLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&entries).Error
}

// ListPendingByRole returns pending, non-finalized entries assigned to a role
func (r *ApprovalLedgerRepository) ListPendingByRole(ctx context.Context, roleID uuid.UUID) ([]domain.ApprovalLedgerEntry, error) {
	var entries []domain.ApprovalLedgerEntry
	err := r.db.WithContext(ctx).
		Where("role_id = ? AND trail = ? AND is_finalized = ?", roleID, domain.TrailPending, false).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
