package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, document *domain.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var document domain.Document
	err := r.db.WithContext(ctx).First(&document, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *DocumentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.Document, error) {
	var documents []domain.Document
	err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", orderID).
		Order("created_at DESC").
		Find(&documents).Error
	return documents, err
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Document{}, "id = ?", id).Error
}
