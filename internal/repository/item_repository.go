package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).Preload("Supplier").First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) GetByERPReference(ctx context.Context, reference string) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).First(&item, "erp_reference = ?", reference).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) List(ctx context.Context, search string, page, pageSize int) ([]domain.Item, int64, error) {
	var items []domain.Item
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Item{}).Where("is_active = ?", true)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Supplier").
		Offset(offset).Limit(pageSize).
		Order("name ASC").
		Find(&items).Error
	return items, total, err
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// UpdatePricesFromERP writes synced prices for an item and stamps the sync time
func (r *ItemRepository) UpdatePricesFromERP(ctx context.Context, id uuid.UUID, unitCost, unitPrice float64, syncedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"unit_cost":     unitCost,
			"unit_price":    unitPrice,
			"erp_synced_at": syncedAt,
		}).Error
}
