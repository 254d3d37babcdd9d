package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, tx *gorm.DB, invoice *domain.Invoice) error {
	return tx.WithContext(ctx).Create(invoice).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Store").
		Preload("Items.Item").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) List(ctx context.Context, storeID *uuid.UUID, page, pageSize int) ([]domain.Invoice, int64, error) {
	var invoices []domain.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Invoice{})
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Store").
		Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&invoices).Error
	return invoices, total, err
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.InvoiceStatus) error {
	return tx.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *InvoiceRepository) CountForYear(ctx context.Context, year int) (int64, error) {
	var count int64
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	err := r.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

// NextInvoiceNumber builds the next sequential invoice number, e.g. "INV-2026-0031"
func (r *InvoiceRepository) NextInvoiceNumber(ctx context.Context, now time.Time) (string, error) {
	count, err := r.CountForYear(ctx, now.Year())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%d-%04d", now.Year(), count+1), nil
}
