package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses. Timestamps are ISO 8601 strings.

type PurchaseOrderDTO struct {
	ID              uuid.UUID                `json:"id"`
	PONumber        string                   `json:"poNumber"`
	SupplierID      uuid.UUID                `json:"supplierId"`
	SupplierName    string                   `json:"supplierName,omitempty"`
	StoreID         uuid.UUID                `json:"storeId"`
	StoreName       string                   `json:"storeName,omitempty"`
	WorkflowID      *uuid.UUID               `json:"workflowId,omitempty"`
	OrderStatus     string                   `json:"orderStatus,omitempty"`
	ApprovalStatus  string                   `json:"approvalStatus,omitempty"`
	NextLevelRoleID *uuid.UUID               `json:"nextLevelRoleId,omitempty"`
	CreatedBy       uuid.UUID                `json:"createdBy"`
	CreatedByName   string                   `json:"createdByName,omitempty"`
	TotalAmount     float64                  `json:"totalAmount"`
	ReceivedAt      *string                  `json:"receivedAt,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
	Version         int                      `json:"version"`
	Items           []PurchaseOrderItemDTO   `json:"items,omitempty"`
	Approvals       []ApprovalLedgerEntryDTO `json:"approvals,omitempty"`
	CreatedAt       string                   `json:"createdAt"`
	UpdatedAt       string                   `json:"updatedAt"`
}

type PurchaseOrderItemDTO struct {
	ID       uuid.UUID `json:"id"`
	ItemID   uuid.UUID `json:"itemId"`
	ItemName string    `json:"itemName,omitempty"`
	Quantity float64   `json:"quantity"`
	UnitCost float64   `json:"unitCost"`
	Amount   float64   `json:"amount"`
}

type ApprovalLedgerEntryDTO struct {
	ID             uuid.UUID     `json:"id"`
	Status         string        `json:"status"`
	Trail          ApprovalTrail `json:"trail"`
	RoleID         uuid.UUID     `json:"roleId"`
	RoleName       string        `json:"roleName,omitempty"`
	SequenceNo     int           `json:"sequenceNo"`
	IsFinalized    bool          `json:"isFinalized"`
	ApprovedBy     *uuid.UUID    `json:"approvedBy,omitempty"`
	ApprovedByName string        `json:"approvedByName,omitempty"`
	RejectedBy     *uuid.UUID    `json:"rejectedBy,omitempty"`
	RejectedByName string        `json:"rejectedByName,omitempty"`
	RejectedTo     *uuid.UUID    `json:"rejectedTo,omitempty"`
	Comment        string        `json:"comment,omitempty"`
	Date           string        `json:"date"`
}

type WorkflowConfigDTO struct {
	ID              uuid.UUID `json:"id"`
	ProcessName     string    `json:"processName"`
	Level           int       `json:"level"`
	RoleID          uuid.UUID `json:"roleId"`
	RoleName        string    `json:"roleName,omitempty"`
	OverrideEnabled bool      `json:"overrideEnabled"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       string    `json:"createdAt"`
	UpdatedAt       string    `json:"updatedAt"`
}

type StatusMessageDTO struct {
	ID          uuid.UUID `json:"id"`
	Category    string    `json:"category"`
	SubCategory string    `json:"subCategory"`
	Message     string    `json:"message"`
}

type SupplierDTO struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	OrgNumber     string         `json:"orgNumber,omitempty"`
	Email         string         `json:"email,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	Address       string         `json:"address,omitempty"`
	City          string         `json:"city,omitempty"`
	Country       string         `json:"country,omitempty"`
	ContactPerson string         `json:"contactPerson,omitempty"`
	Status        SupplierStatus `json:"status"`
	CreatedAt     string         `json:"createdAt"`
	UpdatedAt     string         `json:"updatedAt"`
}

type StoreDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

type ItemDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku,omitempty"`
	Description  string    `json:"description,omitempty"`
	Unit         string    `json:"unit,omitempty"`
	UnitCost     float64   `json:"unitCost"`
	UnitPrice    float64   `json:"unitPrice"`
	ERPReference string    `json:"erpReference,omitempty"`
	ERPSyncedAt  *string   `json:"erpSyncedAt,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

type StockLotDTO struct {
	ID              uuid.UUID  `json:"id"`
	ItemID          uuid.UUID  `json:"itemId"`
	ItemName        string     `json:"itemName,omitempty"`
	StoreID         uuid.UUID  `json:"storeId"`
	Quantity        float64    `json:"quantity"`
	Capacity        float64    `json:"capacity"`
	UnitCost        float64    `json:"unitCost"`
	PurchaseOrderID *uuid.UUID `json:"purchaseOrderId,omitempty"`
	CreatedAt       string     `json:"createdAt"`
}

type InvoiceDTO struct {
	ID            uuid.UUID        `json:"id"`
	InvoiceNumber string           `json:"invoiceNumber"`
	StoreID       uuid.UUID        `json:"storeId"`
	StoreName     string           `json:"storeName,omitempty"`
	CustomerName  string           `json:"customerName,omitempty"`
	Status        InvoiceStatus    `json:"status"`
	TotalAmount   float64          `json:"totalAmount"`
	CreatedBy     uuid.UUID        `json:"createdBy"`
	CreatedByName string           `json:"createdByName,omitempty"`
	Items         []InvoiceItemDTO `json:"items,omitempty"`
	CreatedAt     string           `json:"createdAt"`
	UpdatedAt     string           `json:"updatedAt"`
}

type InvoiceItemDTO struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"itemId"`
	ItemName  string    `json:"itemName,omitempty"`
	Quantity  float64   `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
	Amount    float64   `json:"amount"`
}

type NotificationDTO struct {
	ID        uuid.UUID            `json:"id"`
	AssignTo  uuid.UUID            `json:"assignTo"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Status    NotificationStatus   `json:"status"`
	Priority  NotificationPriority `json:"priority"`
	AlertType string               `json:"alertType,omitempty"`
	EntityID  string               `json:"entityId,omitempty"`
	ReadAt    *string              `json:"readAt,omitempty"`
	CreatedAt string               `json:"createdAt"`
}

type SystemLogDTO struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entityType"`
	EntityID    string    `json:"entityId"`
	Description string    `json:"description,omitempty"`
	UserID      uuid.UUID `json:"userId"`
	UserName    string    `json:"userName,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}

type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt string    `json:"createdAt"`
}

type DocumentDTO struct {
	ID          uuid.UUID `json:"id"`
	EntityType  string    `json:"entityType"`
	EntityID    uuid.UUID `json:"entityId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedBy  uuid.UUID `json:"uploadedBy"`
	CreatedAt   string    `json:"createdAt"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// NewPaginatedResponse wraps a result page with its pagination metadata
func NewPaginatedResponse(data interface{}, total int64, page, pageSize int) *PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// API Response wrapper
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}

// Request DTOs

type CreatePurchaseOrderRequest struct {
	SupplierID uuid.UUID                        `json:"supplierId" validate:"required"`
	StoreID    uuid.UUID                        `json:"storeId" validate:"required"`
	Notes      string                           `json:"notes,omitempty" validate:"max=1000"`
	Items      []CreatePurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreatePurchaseOrderItemRequest struct {
	ItemID   uuid.UUID `json:"itemId" validate:"required"`
	Quantity float64   `json:"quantity" validate:"required,gt=0"`
	UnitCost float64   `json:"unitCost" validate:"gte=0"`
}

type UpdatePurchaseOrderRequest struct {
	SupplierID uuid.UUID                        `json:"supplierId" validate:"required"`
	StoreID    uuid.UUID                        `json:"storeId" validate:"required"`
	Notes      string                           `json:"notes,omitempty" validate:"max=1000"`
	Items      []CreatePurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ApproveOrderRequest struct {
	Comment string `json:"comment,omitempty" validate:"max=1000"`
}

type RejectOrderRequest struct {
	Comment string `json:"comment" validate:"required,max=1000"`
}

type ReceiveOrderRequest struct {
	Remarks string `json:"remarks,omitempty" validate:"max=1000"`
}

type CreateWorkflowConfigRequest struct {
	ProcessName     string    `json:"processName" validate:"required,max=100"`
	Level           int       `json:"level" validate:"required,min=1"`
	RoleID          uuid.UUID `json:"roleId" validate:"required"`
	OverrideEnabled bool      `json:"overrideEnabled"`
}

type UpdateWorkflowConfigRequest struct {
	Level           int       `json:"level" validate:"required,min=1"`
	RoleID          uuid.UUID `json:"roleId" validate:"required"`
	OverrideEnabled bool      `json:"overrideEnabled"`
	IsActive        bool      `json:"isActive"`
}

type CreateSupplierRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	OrgNumber     string `json:"orgNumber,omitempty" validate:"max=20"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty" validate:"max=50"`
	Address       string `json:"address,omitempty" validate:"max=500"`
	City          string `json:"city,omitempty" validate:"max=100"`
	Country       string `json:"country,omitempty" validate:"max=100"`
	ContactPerson string `json:"contactPerson,omitempty" validate:"max=200"`
}

type UpdateSupplierRequest struct {
	Name          string         `json:"name" validate:"required,max=200"`
	OrgNumber     string         `json:"orgNumber,omitempty" validate:"max=20"`
	Email         string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string         `json:"phone,omitempty" validate:"max=50"`
	Address       string         `json:"address,omitempty" validate:"max=500"`
	City          string         `json:"city,omitempty" validate:"max=100"`
	Country       string         `json:"country,omitempty" validate:"max=100"`
	ContactPerson string         `json:"contactPerson,omitempty" validate:"max=200"`
	Status        SupplierStatus `json:"status,omitempty"`
}

type CreateStoreRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Code    string `json:"code,omitempty" validate:"max=50"`
	Address string `json:"address,omitempty" validate:"max=500"`
	City    string `json:"city,omitempty" validate:"max=100"`
}

type UpdateStoreRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Code     string `json:"code,omitempty" validate:"max=50"`
	Address  string `json:"address,omitempty" validate:"max=500"`
	City     string `json:"city,omitempty" validate:"max=100"`
	IsActive bool   `json:"isActive"`
}

type CreateItemRequest struct {
	Name         string     `json:"name" validate:"required,max=200"`
	SKU          string     `json:"sku,omitempty" validate:"max=100"`
	Description  string     `json:"description,omitempty" validate:"max=1000"`
	Unit         string     `json:"unit,omitempty" validate:"max=20"`
	UnitCost     float64    `json:"unitCost" validate:"gte=0"`
	UnitPrice    float64    `json:"unitPrice" validate:"gte=0"`
	SupplierID   *uuid.UUID `json:"supplierId,omitempty"`
	ERPReference string     `json:"erpReference,omitempty" validate:"max=100"`
}

type UpdateItemRequest struct {
	Name         string     `json:"name" validate:"required,max=200"`
	SKU          string     `json:"sku,omitempty" validate:"max=100"`
	Description  string     `json:"description,omitempty" validate:"max=1000"`
	Unit         string     `json:"unit,omitempty" validate:"max=20"`
	UnitCost     float64    `json:"unitCost" validate:"gte=0"`
	UnitPrice    float64    `json:"unitPrice" validate:"gte=0"`
	SupplierID   *uuid.UUID `json:"supplierId,omitempty"`
	ERPReference string     `json:"erpReference,omitempty" validate:"max=100"`
	IsActive     bool       `json:"isActive"`
}

type CreateInvoiceRequest struct {
	StoreID      uuid.UUID                  `json:"storeId" validate:"required"`
	CustomerName string                     `json:"customerName,omitempty" validate:"max=200"`
	Items        []CreateInvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreateInvoiceItemRequest struct {
	ItemID    uuid.UUID `json:"itemId" validate:"required"`
	Quantity  float64   `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64   `json:"unitPrice" validate:"gte=0"`
}

type UpdateInvoiceRequest struct {
	Items []CreateInvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreateStatusMessageRequest struct {
	Category    string `json:"category" validate:"required,max=100"`
	SubCategory string `json:"subCategory" validate:"required,max=100"`
	Message     string `json:"message" validate:"required,max=500"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresIn int     `json:"expiresIn"`
	User      UserDTO `json:"user"`
}
