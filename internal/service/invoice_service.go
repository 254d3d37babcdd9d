package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/auth"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/inventory"
	"github.com/zephyrixtech/test-inventory-sub001/internal/mapper"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
)

// InvoiceService issues sales invoices and keeps stock lots in sync. Stock is
// consumed oldest lot first; editing an invoice restores the previously
// deducted quantities before applying the new lines so no stock is lost.
type InvoiceService struct {
	invoiceRepo   *repository.InvoiceRepository
	stockLotRepo  *repository.StockLotRepository
	itemRepo      *repository.ItemRepository
	storeRepo     *repository.StoreRepository
	systemLogRepo *repository.SystemLogRepository
	logger        *zap.Logger
	db            *gorm.DB
}

func NewInvoiceService(
	invoiceRepo *repository.InvoiceRepository,
	stockLotRepo *repository.StockLotRepository,
	itemRepo *repository.ItemRepository,
	storeRepo *repository.StoreRepository,
	systemLogRepo *repository.SystemLogRepository,
	logger *zap.Logger,
	db *gorm.DB,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:   invoiceRepo,
		stockLotRepo:  stockLotRepo,
		itemRepo:      itemRepo,
		storeRepo:     storeRepo,
		systemLogRepo: systemLogRepo,
		logger:        logger,
		db:            db,
	}
}

// Create issues an invoice and deducts every line from the store's stock lots
// in one transaction. Any line short on stock fails the whole invoice.
func (s *InvoiceService) Create(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.InvoiceDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if _, err := s.storeRepo.GetByID(ctx, req.StoreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to verify store: %w", err)
	}

	now := time.Now().UTC()
	invoiceNumber, err := s.invoiceRepo.NextInvoiceNumber(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
	}

	var invoiceID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, total, err := s.buildLines(ctx, req.Items)
		if err != nil {
			return err
		}

		for _, line := range items {
			if err := s.deduct(ctx, tx, line.ItemID, req.StoreID, line.Quantity); err != nil {
				return err
			}
		}

		invoice := &domain.Invoice{
			InvoiceNumber: invoiceNumber,
			StoreID:       req.StoreID,
			CustomerName:  req.CustomerName,
			Status:        domain.InvoiceStatusIssued,
			CompanyID:     companyIDOf(uc),
			CreatedBy:     uc.UserID,
			TotalAmount:   total,
			Items:         items,
		}
		if err := s.invoiceRepo.Create(ctx, tx, invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		invoiceID = invoice.ID

		return s.systemLogRepo.CreateInTx(ctx, tx, &domain.SystemLog{
			UserID:      &uc.UserID,
			UserName:    uc.DisplayName,
			Action:      domain.LogActionCreate,
			EntityType:  "invoice",
			EntityID:    &invoice.ID,
			EntityName:  invoice.InvoiceNumber,
			Description: fmt.Sprintf("Issued invoice %s", invoice.InvoiceNumber),
			CompanyID:   invoice.CompanyID,
			PerformedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, invoiceID)
}

// Update replaces an invoice's lines. Previously deducted stock is restored
// first, then the new lines are deducted, all inside one transaction, so an
// unchanged line nets out to zero stock movement.
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateInvoiceRequest) (*domain.InvoiceDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice.Status == domain.InvoiceStatusCancelled {
		return nil, fmt.Errorf("%w: invoice %s is cancelled", ErrInvalidInput, invoice.InvoiceNumber)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range invoice.Items {
			if err := s.restore(ctx, tx, line.ItemID, invoice.StoreID, line.Quantity); err != nil {
				return err
			}
		}

		items, total, err := s.buildLines(ctx, req.Items)
		if err != nil {
			return err
		}
		for _, line := range items {
			if err := s.deduct(ctx, tx, line.ItemID, invoice.StoreID, line.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Delete(&domain.InvoiceItem{}, "invoice_id = ?", invoice.ID).Error; err != nil {
			return fmt.Errorf("failed to replace invoice lines: %w", err)
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to replace invoice lines: %w", err)
		}
		if err := tx.Model(&domain.Invoice{}).Where("id = ?", invoice.ID).
			Update("total_amount", total).Error; err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		return s.systemLogRepo.CreateInTx(ctx, tx, &domain.SystemLog{
			UserID:      &uc.UserID,
			UserName:    uc.DisplayName,
			Action:      domain.LogActionUpdate,
			EntityType:  "invoice",
			EntityID:    &invoice.ID,
			EntityName:  invoice.InvoiceNumber,
			Description: fmt.Sprintf("Updated invoice %s", invoice.InvoiceNumber),
			CompanyID:   invoice.CompanyID,
			PerformedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Cancel voids an invoice and returns its stock to the lots
func (s *InvoiceService) Cancel(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice.Status == domain.InvoiceStatusCancelled {
		return mapper.ToInvoiceDTO(invoice), nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range invoice.Items {
			if err := s.restore(ctx, tx, line.ItemID, invoice.StoreID, line.Quantity); err != nil {
				return err
			}
		}
		if err := s.invoiceRepo.UpdateStatus(ctx, tx, invoice.ID, domain.InvoiceStatusCancelled); err != nil {
			return fmt.Errorf("failed to cancel invoice: %w", err)
		}
		return s.systemLogRepo.CreateInTx(ctx, tx, &domain.SystemLog{
			UserID:      &uc.UserID,
			UserName:    uc.DisplayName,
			Action:      domain.LogActionDelete,
			EntityType:  "invoice",
			EntityID:    &invoice.ID,
			EntityName:  invoice.InvoiceNumber,
			Description: fmt.Sprintf("Cancelled invoice %s", invoice.InvoiceNumber),
			CompanyID:   invoice.CompanyID,
			PerformedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	return mapper.ToInvoiceDTO(invoice), nil
}

func (s *InvoiceService) List(ctx context.Context, storeID *uuid.UUID, page, pageSize int) (*domain.PaginatedResponse, error) {
	invoices, total, err := s.invoiceRepo.List(ctx, storeID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	dtos := make([]*domain.InvoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = mapper.ToInvoiceDTO(&invoices[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

// deduct withdraws qty of an item from the store's lots oldest first
func (s *InvoiceService) deduct(ctx context.Context, tx *gorm.DB, itemID, storeID uuid.UUID, qty float64) error {
	rows, err := s.stockLotRepo.ListForItemStore(ctx, tx, itemID, storeID)
	if err != nil {
		return fmt.Errorf("failed to load stock lots: %w", err)
	}

	adjusted, err := inventory.Reduce(toInventoryLots(rows), qty)
	if err != nil {
		if errors.Is(err, inventory.ErrInsufficientStock) {
			return fmt.Errorf("%w for item %s: %v", ErrInsufficientStock, itemID, err)
		}
		return err
	}
	return s.writeLots(ctx, tx, rows, adjusted)
}

// restore returns qty of an item to the store's lots, oldest first up to each
// lot's capacity
func (s *InvoiceService) restore(ctx context.Context, tx *gorm.DB, itemID, storeID uuid.UUID, qty float64) error {
	rows, err := s.stockLotRepo.ListForItemStore(ctx, tx, itemID, storeID)
	if err != nil {
		return fmt.Errorf("failed to load stock lots: %w", err)
	}
	if len(rows) == 0 {
		s.logger.Warn("no stock lots to restore into",
			zap.String("itemId", itemID.String()),
			zap.String("storeId", storeID.String()),
			zap.Float64("quantity", qty))
		return nil
	}

	adjusted, err := inventory.Restore(toInventoryLots(rows), qty)
	if err != nil {
		return err
	}
	return s.writeLots(ctx, tx, rows, adjusted)
}

// writeLots persists only the lots whose quantity actually changed
func (s *InvoiceService) writeLots(ctx context.Context, tx *gorm.DB, rows []domain.StockLot, adjusted []inventory.Lot) error {
	for i := range adjusted {
		if adjusted[i].Quantity == rows[i].Quantity {
			continue
		}
		if err := s.stockLotRepo.UpdateQuantity(ctx, tx, rows[i].ID, adjusted[i].Quantity); err != nil {
			return fmt.Errorf("failed to update stock lot: %w", err)
		}
	}
	return nil
}

func (s *InvoiceService) buildLines(ctx context.Context, reqs []domain.CreateInvoiceItemRequest) ([]domain.InvoiceItem, float64, error) {
	items := make([]domain.InvoiceItem, len(reqs))
	var total float64
	for i, r := range reqs {
		item, err := s.itemRepo.GetByID(ctx, r.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, fmt.Errorf("%w: %s", ErrItemNotFound, r.ItemID)
			}
			return nil, 0, fmt.Errorf("failed to verify item: %w", err)
		}

		unitPrice := r.UnitPrice
		if unitPrice == 0 {
			unitPrice = item.UnitPrice
		}
		items[i] = domain.InvoiceItem{
			ItemID:    r.ItemID,
			Quantity:  r.Quantity,
			UnitPrice: unitPrice,
		}
		total += r.Quantity * unitPrice
	}
	return items, total, nil
}

func toInventoryLots(rows []domain.StockLot) []inventory.Lot {
	lots := make([]inventory.Lot, len(rows))
	for i, r := range rows {
		lots[i] = inventory.Lot{Index: i, Quantity: r.Quantity, Capacity: r.Capacity}
	}
	return lots
}
