// Package mapper converts persistence models into API response DTOs.
package mapper

import (
	"time"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// ToPurchaseOrderDTO converts PurchaseOrder to PurchaseOrderDTO
func ToPurchaseOrderDTO(order *domain.PurchaseOrder) *domain.PurchaseOrderDTO {
	dto := &domain.PurchaseOrderDTO{
		ID:              order.ID,
		PONumber:        order.PONumber,
		SupplierID:      order.SupplierID,
		StoreID:         order.StoreID,
		WorkflowID:      order.WorkflowID,
		NextLevelRoleID: order.NextLevelRoleID,
		CreatedBy:       order.CreatedBy,
		TotalAmount:     order.TotalAmount,
		ReceivedAt:      formatTimePtr(order.ReceivedAt),
		Notes:           order.Notes,
		Version:         order.Version,
		CreatedAt:       formatTime(order.CreatedAt),
		UpdatedAt:       formatTime(order.UpdatedAt),
	}

	if order.Supplier != nil {
		dto.SupplierName = order.Supplier.Name
	}
	if order.Store != nil {
		dto.StoreName = order.Store.Name
	}
	if order.OrderStatus != nil {
		dto.OrderStatus = order.OrderStatus.Message
	}
	if len(order.Approvals) > 0 {
		// the highest-sequence entry carries the current approval status text
		latest := order.Approvals[0]
		for _, e := range order.Approvals[1:] {
			if e.SequenceNo > latest.SequenceNo {
				latest = e
			}
		}
		dto.ApprovalStatus = latest.Status
	}

	if len(order.Items) > 0 {
		dto.Items = make([]domain.PurchaseOrderItemDTO, len(order.Items))
		for i, item := range order.Items {
			dto.Items[i] = ToPurchaseOrderItemDTO(&item)
		}
	}
	if len(order.Approvals) > 0 {
		dto.Approvals = make([]domain.ApprovalLedgerEntryDTO, len(order.Approvals))
		for i, entry := range order.Approvals {
			dto.Approvals[i] = ToApprovalLedgerEntryDTO(&entry)
		}
	}
	return dto
}

// ToPurchaseOrderItemDTO converts PurchaseOrderItem to its DTO
func ToPurchaseOrderItemDTO(item *domain.PurchaseOrderItem) domain.PurchaseOrderItemDTO {
	dto := domain.PurchaseOrderItemDTO{
		ID:       item.ID,
		ItemID:   item.ItemID,
		Quantity: item.Quantity,
		UnitCost: item.UnitCost,
		Amount:   item.Quantity * item.UnitCost,
	}
	if item.Item != nil {
		dto.ItemName = item.Item.Name
	}
	return dto
}

// ToApprovalLedgerEntryDTO converts ApprovalLedgerEntry to its DTO
func ToApprovalLedgerEntryDTO(entry *domain.ApprovalLedgerEntry) domain.ApprovalLedgerEntryDTO {
	dto := domain.ApprovalLedgerEntryDTO{
		ID:          entry.ID,
		Status:      entry.Status,
		Trail:       entry.Trail,
		RoleID:      entry.RoleID,
		SequenceNo:  entry.SequenceNo,
		IsFinalized: entry.IsFinalized,
		ApprovedBy:  entry.ApprovedBy,
		RejectedBy:  entry.RejectedBy,
		RejectedTo:  entry.RejectedTo,
		Comment:     entry.Comment,
		Date:        formatTime(entry.Date),
	}
	if entry.Role != nil {
		dto.RoleName = entry.Role.Name
	}
	return dto
}

// ToWorkflowConfigDTO converts WorkflowConfig to WorkflowConfigDTO
func ToWorkflowConfigDTO(cfg *domain.WorkflowConfig) *domain.WorkflowConfigDTO {
	dto := &domain.WorkflowConfigDTO{
		ID:              cfg.ID,
		ProcessName:     cfg.ProcessName,
		Level:           cfg.Level,
		RoleID:          cfg.RoleID,
		OverrideEnabled: cfg.OverrideEnabled,
		IsActive:        cfg.IsActive,
		CreatedAt:       formatTime(cfg.CreatedAt),
		UpdatedAt:       formatTime(cfg.UpdatedAt),
	}
	if cfg.Role != nil {
		dto.RoleName = cfg.Role.Name
	}
	return dto
}

// ToStatusMessageDTO converts StatusMessage to StatusMessageDTO
func ToStatusMessageDTO(msg *domain.StatusMessage) *domain.StatusMessageDTO {
	return &domain.StatusMessageDTO{
		ID:          msg.ID,
		Category:    msg.Category,
		SubCategory: msg.SubCategory,
		Message:     msg.Message,
	}
}

// ToSupplierDTO converts Supplier to SupplierDTO
func ToSupplierDTO(supplier *domain.Supplier) *domain.SupplierDTO {
	return &domain.SupplierDTO{
		ID:            supplier.ID,
		Name:          supplier.Name,
		OrgNumber:     supplier.OrgNumber,
		Email:         supplier.Email,
		Phone:         supplier.Phone,
		Address:       supplier.Address,
		City:          supplier.City,
		Country:       supplier.Country,
		ContactPerson: supplier.ContactPerson,
		Status:        supplier.Status,
		CreatedAt:     formatTime(supplier.CreatedAt),
		UpdatedAt:     formatTime(supplier.UpdatedAt),
	}
}

// ToStoreDTO converts Store to StoreDTO
func ToStoreDTO(store *domain.Store) *domain.StoreDTO {
	return &domain.StoreDTO{
		ID:        store.ID,
		Name:      store.Name,
		Code:      store.Code,
		Address:   store.Address,
		City:      store.City,
		IsActive:  store.IsActive,
		CreatedAt: formatTime(store.CreatedAt),
		UpdatedAt: formatTime(store.UpdatedAt),
	}
}

// ToItemDTO converts Item to ItemDTO
func ToItemDTO(item *domain.Item) *domain.ItemDTO {
	return &domain.ItemDTO{
		ID:           item.ID,
		Name:         item.Name,
		SKU:          item.SKU,
		Description:  item.Description,
		Unit:         item.Unit,
		UnitCost:     item.UnitCost,
		UnitPrice:    item.UnitPrice,
		ERPReference: item.ERPReference,
		ERPSyncedAt:  formatTimePtr(item.ERPSyncedAt),
		IsActive:     item.IsActive,
		CreatedAt:    formatTime(item.CreatedAt),
		UpdatedAt:    formatTime(item.UpdatedAt),
	}
}

// ToStockLotDTO converts StockLot to StockLotDTO
func ToStockLotDTO(lot *domain.StockLot) *domain.StockLotDTO {
	dto := &domain.StockLotDTO{
		ID:              lot.ID,
		ItemID:          lot.ItemID,
		StoreID:         lot.StoreID,
		Quantity:        lot.Quantity,
		Capacity:        lot.Capacity,
		UnitCost:        lot.UnitCost,
		PurchaseOrderID: lot.PurchaseOrderID,
		CreatedAt:       formatTime(lot.CreatedAt),
	}
	if lot.Item != nil {
		dto.ItemName = lot.Item.Name
	}
	return dto
}

// ToInvoiceDTO converts Invoice to InvoiceDTO
func ToInvoiceDTO(invoice *domain.Invoice) *domain.InvoiceDTO {
	dto := &domain.InvoiceDTO{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		StoreID:       invoice.StoreID,
		CustomerName:  invoice.CustomerName,
		Status:        invoice.Status,
		TotalAmount:   invoice.TotalAmount,
		CreatedBy:     invoice.CreatedBy,
		CreatedAt:     formatTime(invoice.CreatedAt),
		UpdatedAt:     formatTime(invoice.UpdatedAt),
	}
	if invoice.Store != nil {
		dto.StoreName = invoice.Store.Name
	}
	if len(invoice.Items) > 0 {
		dto.Items = make([]domain.InvoiceItemDTO, len(invoice.Items))
		for i, item := range invoice.Items {
			dto.Items[i] = ToInvoiceItemDTO(&item)
		}
	}
	return dto
}

// ToInvoiceItemDTO converts InvoiceItem to its DTO
func ToInvoiceItemDTO(item *domain.InvoiceItem) domain.InvoiceItemDTO {
	dto := domain.InvoiceItemDTO{
		ID:        item.ID,
		ItemID:    item.ItemID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		Amount:    item.Quantity * item.UnitPrice,
	}
	if item.Item != nil {
		dto.ItemName = item.Item.Name
	}
	return dto
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(n *domain.Notification) *domain.NotificationDTO {
	return &domain.NotificationDTO{
		ID:        n.ID,
		AssignTo:  n.AssignTo,
		Title:     n.Title,
		Message:   n.Message,
		Status:    n.Status,
		Priority:  n.Priority,
		AlertType: n.AlertType,
		EntityID:  n.EntityID,
		ReadAt:    formatTimePtr(n.ReadAt),
		CreatedAt: formatTime(n.CreatedAt),
	}
}

// ToSystemLogDTO converts SystemLog to SystemLogDTO
func ToSystemLogDTO(log *domain.SystemLog) *domain.SystemLogDTO {
	dto := &domain.SystemLogDTO{
		ID:          log.ID,
		Action:      string(log.Action),
		EntityType:  log.EntityType,
		Description: log.Description,
		UserName:    log.UserName,
		CreatedAt:   formatTime(log.CreatedAt),
	}
	if log.UserID != nil {
		dto.UserID = *log.UserID
	}
	if log.EntityID != nil {
		dto.EntityID = log.EntityID.String()
	}
	return dto
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) *domain.UserDTO {
	return &domain.UserDTO{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Roles:     user.Roles,
		IsActive:  user.IsActive,
		CreatedAt: formatTime(user.CreatedAt),
	}
}

// ToDocumentDTO converts Document to DocumentDTO
func ToDocumentDTO(doc *domain.Document) *domain.DocumentDTO {
	dto := &domain.DocumentDTO{
		ID:          doc.ID,
		EntityType:  "purchase_order",
		FileName:    doc.Filename,
		ContentType: doc.ContentType,
		Size:        doc.Size,
		UploadedBy:  doc.UploadedBy,
		CreatedAt:   formatTime(doc.CreatedAt),
	}
	if doc.PurchaseOrderID != nil {
		dto.EntityID = *doc.PurchaseOrderID
	}
	return dto
}
