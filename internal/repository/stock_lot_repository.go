package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

type StockLotRepository struct {
	db *gorm.DB
}

func NewStockLotRepository(db *gorm.DB) *StockLotRepository {
	return &StockLotRepository{db: db}
}

// ListForItemStore returns the item's lots at a store, oldest first. When a
// transaction is given the rows are locked for update so concurrent invoice
// writers serialize on the same lots.
func (r *StockLotRepository) ListForItemStore(ctx context.Context, tx *gorm.DB, itemID, storeID uuid.UUID) ([]domain.StockLot, error) {
	db := r.db
	if tx != nil {
		db = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var lots []domain.StockLot
	err := db.WithContext(ctx).
		Where("item_id = ? AND store_id = ?", itemID, storeID).
		Order("created_at ASC").
		Find(&lots).Error
	return lots, err
}

func (r *StockLotRepository) CreateBatch(ctx context.Context, tx *gorm.DB, lots []domain.StockLot) error {
	if len(lots) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&lots).Error
}

// UpdateQuantity writes a lot's new quantity inside a transaction
func (r *StockLotRepository) UpdateQuantity(ctx context.Context, tx *gorm.DB, lotID uuid.UUID, quantity float64) error {
	return tx.WithContext(ctx).
		Model(&domain.StockLot{}).
		Where("id = ?", lotID).
		Update("quantity", quantity).Error
}

// AvailableQuantity sums the remaining stock of an item at a store
func (r *StockLotRepository) AvailableQuantity(ctx context.Context, itemID, storeID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&domain.StockLot{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("item_id = ? AND store_id = ?", itemID, storeID).
		Scan(&total).Error
	return total, err
}

func (r *StockLotRepository) ListByStore(ctx context.Context, storeID uuid.UUID, page, pageSize int) ([]domain.StockLot, int64, error) {
	var lots []domain.StockLot
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.StockLot{}).Where("store_id = ?", storeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Item").
		Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&lots).Error
	return lots, total, err
}
