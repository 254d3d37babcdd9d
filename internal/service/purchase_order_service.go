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
	"github.com/zephyrixtech/test-inventory-sub001/internal/mapper"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
)

// PurchaseOrderService implements the purchase order lifecycle outside the
// approval workflow: drafting, editing, goods receipt and attachments.
type PurchaseOrderService struct {
	orderRepo     *repository.PurchaseOrderRepository
	supplierRepo  *repository.SupplierRepository
	storeRepo     *repository.StoreRepository
	itemRepo      *repository.ItemRepository
	stockLotRepo  *repository.StockLotRepository
	statusRepo    *repository.StatusMessageRepository
	systemLogRepo *repository.SystemLogRepository
	logger        *zap.Logger
	db            *gorm.DB
}

func NewPurchaseOrderService(
	orderRepo *repository.PurchaseOrderRepository,
	supplierRepo *repository.SupplierRepository,
	storeRepo *repository.StoreRepository,
	itemRepo *repository.ItemRepository,
	stockLotRepo *repository.StockLotRepository,
	statusRepo *repository.StatusMessageRepository,
	systemLogRepo *repository.SystemLogRepository,
	logger *zap.Logger,
	db *gorm.DB,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:     orderRepo,
		supplierRepo:  supplierRepo,
		storeRepo:     storeRepo,
		itemRepo:      itemRepo,
		stockLotRepo:  stockLotRepo,
		statusRepo:    statusRepo,
		systemLogRepo: systemLogRepo,
		logger:        logger,
		db:            db,
	}
}

// Create drafts a new purchase order in the "created" state. The workflow is
// not activated until the order is submitted.
func (s *PurchaseOrderService) Create(ctx context.Context, req *domain.CreatePurchaseOrderRequest) (*domain.PurchaseOrderDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	supplier, err := s.supplierRepo.GetByID(ctx, req.SupplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to verify supplier: %w", err)
	}
	if supplier.Status != domain.SupplierStatusActive {
		return nil, fmt.Errorf("%w: supplier %s is not active", ErrInvalidInput, supplier.Name)
	}

	if _, err := s.storeRepo.GetByID(ctx, req.StoreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to verify store: %w", err)
	}

	items, total, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	poNumber, err := s.orderRepo.NextPONumber(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order number: %w", err)
	}

	order := &domain.PurchaseOrder{
		PONumber:    poNumber,
		SupplierID:  req.SupplierID,
		StoreID:     req.StoreID,
		CompanyID:   companyIDOf(uc),
		CreatedBy:   uc.UserID,
		Notes:       req.Notes,
		TotalAmount: total,
		Items:       items,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		status, err := s.statusRepo.EnsureExists(ctx, tx, &domain.StatusMessage{
			Category:    domain.ProcessPurchaseOrder,
			SubCategory: domain.StatusKeyCreated,
			Message:     "Created",
			IsActive:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to resolve order status: %w", err)
		}
		order.OrderStatusID = &status.ID

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create purchase order: %w", err)
		}

		return s.systemLogRepo.CreateInTx(ctx, tx, &domain.SystemLog{
			UserID:      &uc.UserID,
			UserName:    uc.DisplayName,
			Action:      domain.LogActionCreate,
			EntityType:  "purchase_order",
			EntityID:    &order.ID,
			EntityName:  order.PONumber,
			Description: fmt.Sprintf("Created purchase order %s", order.PONumber),
			CompanyID:   order.CompanyID,
			PerformedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("poNumber", order.PONumber),
		zap.String("orderId", order.ID.String()))
	return s.GetByID(ctx, order.ID)
}

func (s *PurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrderDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load purchase order: %w", err)
	}
	return mapper.ToPurchaseOrderDTO(order), nil
}

func (s *PurchaseOrderService) List(ctx context.Context, filter repository.PurchaseOrderFilter, page, pageSize int) (*domain.PaginatedResponse, error) {
	orders, total, err := s.orderRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	dtos := make([]*domain.PurchaseOrderDTO, len(orders))
	for i := range orders {
		dtos[i] = mapper.ToPurchaseOrderDTO(&orders[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

// Update rewrites a draft order. Orders in an active workflow or already
// completed cannot be edited; a rejected order back at its creator can.
func (s *PurchaseOrderService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdatePurchaseOrderRequest) (*domain.PurchaseOrderDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load purchase order: %w", err)
	}
	if order.CreatedBy != uc.UserID && !uc.IsSuperAdmin() {
		return nil, ErrPermissionDenied
	}
	if !isEditable(order) {
		return nil, ErrOrderNotEditable
	}

	items, total, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.ReplaceItems(ctx, tx, order.ID, items); err != nil {
			return fmt.Errorf("failed to replace order items: %w", err)
		}
		updates := map[string]interface{}{
			"supplier_id":  req.SupplierID,
			"store_id":     req.StoreID,
			"notes":        req.Notes,
			"total_amount": total,
		}
		if err := tx.Model(&domain.PurchaseOrder{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}
		return s.systemLogRepo.CreateInTx(ctx, tx, &domain.SystemLog{
			UserID:      &uc.UserID,
			UserName:    uc.DisplayName,
			Action:      domain.LogActionUpdate,
			EntityType:  "purchase_order",
			EntityID:    &order.ID,
			EntityName:  order.PONumber,
			Description: fmt.Sprintf("Updated purchase order %s", order.PONumber),
			CompanyID:   order.CompanyID,
			PerformedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes a draft order. Like Update it is blocked once the workflow
// is active or completed.
func (s *PurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to load purchase order: %w", err)
	}
	if order.CreatedBy != uc.UserID && !uc.IsSuperAdmin() {
		return ErrPermissionDenied
	}
	if !isEditable(order) {
		return ErrOrderNotEditable
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete purchase order: %w", err)
	}
	s.logger.Info("purchase order deleted",
		zap.String("poNumber", order.PONumber),
		zap.String("deletedBy", uc.UserID.String()))
	return nil
}

// Receive books goods receipt for a fully approved order, creating one stock
// lot per order line at the order's store. Each lot's capacity equals the
// received quantity.
func (s *PurchaseOrderService) Receive(ctx context.Context, id uuid.UUID, req *domain.ReceiveOrderRequest) (*domain.PurchaseOrderDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load purchase order: %w", err)
	}
	if !isCompleted(order) {
		return nil, ErrOrderNotApproved
	}
	if order.ReceivedAt != nil {
		return nil, ErrOrderAlreadyReceived
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lots := make([]domain.StockLot, len(order.Items))
		for i, line := range order.Items {
			lots[i] = domain.StockLot{
				ItemID:          line.ItemID,
				StoreID:         order.StoreID,
				Quantity:        line.Quantity,
				Capacity:        line.Quantity,
				UnitCost:        line.UnitCost,
				PurchaseOrderID: &order.ID,
			}
		}
		if err := s.stockLotRepo.CreateBatch(ctx, tx, lots); err != nil {
			return fmt.Errorf("failed to create stock lots: %w", err)
		}

		fields := map[string]interface{}{"received_at": now}
		if err := s.orderRepo.UpdateWorkflowState(ctx, tx, order.ID, order.Version, fields); err != nil {
			return err
		}

		description := fmt.Sprintf("Received goods for purchase order %s", order.PONumber)
		if req.Remarks != "" {
			description += ": " + req.Remarks
		}
		return s.systemLogRepo.CreateInTx(ctx, tx, &domain.SystemLog{
			UserID:      &uc.UserID,
			UserName:    uc.DisplayName,
			Action:      domain.LogActionReceive,
			EntityType:  "purchase_order",
			EntityID:    &order.ID,
			EntityName:  order.PONumber,
			Description: description,
			CompanyID:   order.CompanyID,
			PerformedAt: now,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// buildItems resolves and prices the requested order lines. A line with zero
// unit cost falls back to the item's master cost.
func (s *PurchaseOrderService) buildItems(ctx context.Context, reqs []domain.CreatePurchaseOrderItemRequest) ([]domain.PurchaseOrderItem, float64, error) {
	items := make([]domain.PurchaseOrderItem, len(reqs))
	var total float64
	for i, r := range reqs {
		item, err := s.itemRepo.GetByID(ctx, r.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, fmt.Errorf("%w: %s", ErrItemNotFound, r.ItemID)
			}
			return nil, 0, fmt.Errorf("failed to verify item: %w", err)
		}

		unitCost := r.UnitCost
		if unitCost == 0 {
			unitCost = item.UnitCost
		}
		items[i] = domain.PurchaseOrderItem{
			ItemID:   r.ItemID,
			Quantity: r.Quantity,
			UnitCost: unitCost,
		}
		total += r.Quantity * unitCost
	}
	return items, total, nil
}

// isEditable reports whether an order is a draft, either never submitted or
// returned to its creator after a level 1 rejection
func isEditable(order *domain.PurchaseOrder) bool {
	if order.WorkflowID != nil {
		return false
	}
	return !isCompleted(order)
}

// isCompleted reports whether the approval workflow finished successfully
func isCompleted(order *domain.PurchaseOrder) bool {
	for _, a := range order.Approvals {
		if a.IsFinalized {
			return true
		}
	}
	return false
}

func companyIDOf(uc *auth.UserContext) *domain.CompanyID {
	if uc.CompanyID == "" {
		return nil
	}
	id := uc.CompanyID
	return &id
}
