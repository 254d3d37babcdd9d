package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// CompanyID represents an operating company (tenant)
type CompanyID string

// Company represents an operating company (stored in database)
type Company struct {
	ID        CompanyID `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	ShortName string    `gorm:"type:varchar(50);not null;column:short_name" json:"shortName"`
	OrgNumber string    `gorm:"type:varchar(20);column:org_number" json:"orgNumber,omitempty"`
	IsActive  bool      `gorm:"not null;default:true;column:is_active" json:"isActive"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// User represents a user in the system
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string         `gorm:"type:varchar(255);not null;unique" json:"email"`
	FirstName    string         `gorm:"type:varchar(100);column:first_name" json:"firstName,omitempty"`
	LastName     string         `gorm:"type:varchar(100);column:last_name" json:"lastName,omitempty"`
	DisplayName  string         `gorm:"type:varchar(200);not null;column:name" json:"displayName"`
	PasswordHash string         `gorm:"type:varchar(200);column:password_hash" json:"-"`
	Roles        pq.StringArray `gorm:"type:text[]" json:"roles"`
	CompanyID    *CompanyID     `gorm:"type:varchar(50);column:company_id" json:"companyId,omitempty"`
	Company      *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	IsActive     bool           `gorm:"not null;default:true;column:is_active" json:"isActive"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// FullName returns the user's full name, or display name if first/last not set
func (u *User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.DisplayName
}

// RoleNameSuperAdmin is the well-known name of the Super Admin role.
// Holders may complete approval workflows in one action where the current
// level's config allows override.
const RoleNameSuperAdmin = "Super Admin"

// Role represents an approval role (e.g. "Store Manager", "Finance Manager")
type Role struct {
	BaseModel
	Name        string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string     `gorm:"type:text"`
	CompanyID   *CompanyID `gorm:"type:varchar(50);column:company_id;index"`
	IsActive    bool       `gorm:"not null;default:true;column:is_active"`
}

// UserRole represents a role assignment for a user
type UserRole struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id"`
	User      *User      `gorm:"foreignKey:UserID"`
	RoleID    uuid.UUID  `gorm:"type:uuid;not null;index;column:role_id"`
	Role      *Role      `gorm:"foreignKey:RoleID"`
	CompanyID *CompanyID `gorm:"type:varchar(50);column:company_id"`
	GrantedBy *uuid.UUID `gorm:"type:uuid;column:granted_by"`
	GrantedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;column:granted_at"`
	IsActive  bool       `gorm:"not null;default:true;column:is_active"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// ProcessPurchaseOrder is the approval process name for purchase orders.
// It is the only process this system configures today.
const ProcessPurchaseOrder = "Purchase Order"

// WorkflowConfig represents one level of an approval process.
// For a given process, levels are contiguous integers starting at 1 and
// exactly one config row exists per level; this is enforced at load time.
type WorkflowConfig struct {
	BaseModel
	ProcessName     string     `gorm:"type:varchar(100);not null;index;column:process_name"`
	Level           int        `gorm:"not null"`
	RoleID          uuid.UUID  `gorm:"type:uuid;not null;column:role_id"`
	Role            *Role      `gorm:"foreignKey:RoleID"`
	OverrideEnabled bool       `gorm:"not null;default:false;column:override_enabled"`
	CompanyID       *CompanyID `gorm:"type:varchar(50);column:company_id"`
	IsActive        bool       `gorm:"not null;default:true;column:is_active"`
}

// StatusMessage is a configurable display text row keyed by category and
// sub-category (e.g. "Purchase Order" / "level_2_pending").
type StatusMessage struct {
	BaseModel
	Category    string `gorm:"type:varchar(100);not null;uniqueIndex:idx_status_messages_key"`
	SubCategory string `gorm:"type:varchar(100);not null;column:sub_category;uniqueIndex:idx_status_messages_key"`
	Message     string `gorm:"type:varchar(500);not null"`
	IsActive    bool   `gorm:"not null;default:true;column:is_active"`
}

// Well-known purchase order status sub-categories
const (
	StatusKeyCreated   = "created"
	StatusKeyCompleted = "completed"
)

// ApprovalTrail is the closed set of ledger entry kinds
type ApprovalTrail string

const (
	TrailApproved ApprovalTrail = "Approved"
	TrailPending  ApprovalTrail = "Pending"
	TrailRejected ApprovalTrail = "Rejected"
)

// IsValid checks if the ApprovalTrail is a valid enum value
func (t ApprovalTrail) IsValid() bool {
	switch t {
	case TrailApproved, TrailPending, TrailRejected:
		return true
	}
	return false
}

// ApprovalLedgerEntry is one immutable event in a purchase order's approval
// history. SequenceNo is strictly increasing and unique per order; reading
// ordered by sequence_no reconstructs the ledger.
type ApprovalLedgerEntry struct {
	ID              uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PurchaseOrderID uuid.UUID     `gorm:"type:uuid;not null;column:purchase_order_id;uniqueIndex:idx_ledger_order_seq"`
	Status          string        `gorm:"type:varchar(200);not null"`
	Trail           ApprovalTrail `gorm:"type:varchar(20);not null"`
	RoleID          uuid.UUID     `gorm:"type:uuid;not null;column:role_id"`
	Role            *Role         `gorm:"foreignKey:RoleID"`
	SequenceNo      int           `gorm:"not null;column:sequence_no;uniqueIndex:idx_ledger_order_seq"`
	IsFinalized     bool          `gorm:"not null;default:false;column:is_finalized"`
	ApprovedBy      *uuid.UUID    `gorm:"type:uuid;column:approved_by"`
	RejectedBy      *uuid.UUID    `gorm:"type:uuid;column:rejected_by"`
	RejectedTo      *uuid.UUID    `gorm:"type:uuid;column:rejected_to"`
	Comment         string        `gorm:"type:text"`
	Date            time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	CreatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName overrides the default table name
func (ApprovalLedgerEntry) TableName() string {
	return "approval_ledger_entries"
}

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive      SupplierStatus = "active"
	SupplierStatusInactive    SupplierStatus = "inactive"
	SupplierStatusBlacklisted SupplierStatus = "blacklisted"
)

// IsValid checks if the SupplierStatus is a valid enum value
func (s SupplierStatus) IsValid() bool {
	switch s {
	case SupplierStatusActive, SupplierStatusInactive, SupplierStatusBlacklisted:
		return true
	}
	return false
}

// Supplier represents a goods supplier
type Supplier struct {
	BaseModel
	Name          string         `gorm:"type:varchar(200);not null;index"`
	OrgNumber     string         `gorm:"type:varchar(20);unique;index;column:org_number"`
	Email         string         `gorm:"type:varchar(255)"`
	Phone         string         `gorm:"type:varchar(50)"`
	Address       string         `gorm:"type:varchar(500)"`
	City          string         `gorm:"type:varchar(100)"`
	Country       string         `gorm:"type:varchar(100)"`
	ContactPerson string         `gorm:"type:varchar(200);column:contact_person"`
	Status        SupplierStatus `gorm:"type:varchar(50);not null;default:'active';index"`
	CompanyID     *CompanyID     `gorm:"type:varchar(50);column:company_id;index"`
	ERPReference  string         `gorm:"type:varchar(100);column:erp_reference"`
}

// Store represents a physical location holding stock
type Store struct {
	BaseModel
	Name      string     `gorm:"type:varchar(200);not null;index"`
	Code      string     `gorm:"type:varchar(50);unique"`
	Address   string     `gorm:"type:varchar(500)"`
	City      string     `gorm:"type:varchar(100)"`
	CompanyID *CompanyID `gorm:"type:varchar(50);column:company_id;index"`
	IsActive  bool       `gorm:"not null;default:true;column:is_active"`
}

// Item represents an inventory item (master data)
type Item struct {
	BaseModel
	Name         string     `gorm:"type:varchar(200);not null;index"`
	SKU          string     `gorm:"type:varchar(100);unique;column:sku"`
	Description  string     `gorm:"type:text"`
	Unit         string     `gorm:"type:varchar(50)"`
	UnitCost     float64    `gorm:"type:decimal(15,2);not null;default:0;column:unit_cost"`
	UnitPrice    float64    `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
	SupplierID   *uuid.UUID `gorm:"type:uuid;index;column:supplier_id"`
	Supplier     *Supplier  `gorm:"foreignKey:SupplierID"`
	CompanyID    *CompanyID `gorm:"type:varchar(50);column:company_id;index"`
	IsActive     bool       `gorm:"not null;default:true;column:is_active"`
	ERPReference string     `gorm:"type:varchar(100);column:erp_reference"`
	ERPSyncedAt  *time.Time `gorm:"column:erp_synced_at"`
}

// StockLot is a received batch of an item at a store. Lots are consumed
// oldest-first; Capacity is the originally received quantity and acts as the
// ceiling when restoring stock.
type StockLot struct {
	BaseModel
	ItemID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_stock_lots_item_store;column:item_id"`
	Item            *Item      `gorm:"foreignKey:ItemID"`
	StoreID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_stock_lots_item_store;column:store_id"`
	Store           *Store     `gorm:"foreignKey:StoreID"`
	Quantity        float64    `gorm:"type:decimal(15,3);not null;default:0"`
	Capacity        float64    `gorm:"type:decimal(15,3);not null;default:0"`
	UnitCost        float64    `gorm:"type:decimal(15,2);not null;default:0;column:unit_cost"`
	PurchaseOrderID *uuid.UUID `gorm:"type:uuid;column:purchase_order_id"`
}

// PurchaseOrder represents an order to a supplier, moving through the
// multi-level approval workflow. WorkflowID points at the current level's
// WorkflowConfig and is nil once the order is finalized or back at origin.
// Version guards workflow mutations with an optimistic concurrency check.
type PurchaseOrder struct {
	BaseModel
	PONumber        string                `gorm:"type:varchar(50);unique;index;column:po_number"`
	SupplierID      uuid.UUID             `gorm:"type:uuid;not null;index;column:supplier_id"`
	Supplier        *Supplier             `gorm:"foreignKey:SupplierID"`
	StoreID         uuid.UUID             `gorm:"type:uuid;not null;index;column:store_id"`
	Store           *Store                `gorm:"foreignKey:StoreID"`
	CompanyID       *CompanyID            `gorm:"type:varchar(50);column:company_id;index"`
	WorkflowID      *uuid.UUID            `gorm:"type:uuid;column:workflow_id"`
	OrderStatusID   *uuid.UUID            `gorm:"type:uuid;column:order_status_id"`
	OrderStatus     *StatusMessage        `gorm:"foreignKey:OrderStatusID"`
	NextLevelRoleID *uuid.UUID            `gorm:"type:uuid;column:next_level_role_id"`
	CreatedBy       uuid.UUID             `gorm:"type:uuid;not null;column:created_by"`
	Notes           string                `gorm:"type:text"`
	TotalAmount     float64               `gorm:"type:decimal(15,2);not null;default:0;column:total_amount"`
	ReceivedAt      *time.Time            `gorm:"column:received_at"`
	Version         int                   `gorm:"not null;default:0"`
	Items           []PurchaseOrderItem   `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	Approvals       []ApprovalLedgerEntry `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
}

// PurchaseOrderItem is one line of a purchase order
type PurchaseOrderItem struct {
	BaseModel
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;index;column:purchase_order_id"`
	ItemID          uuid.UUID `gorm:"type:uuid;not null;column:item_id"`
	Item            *Item     `gorm:"foreignKey:ItemID"`
	Quantity        float64   `gorm:"type:decimal(15,3);not null"`
	UnitCost        float64   `gorm:"type:decimal(15,2);not null;default:0;column:unit_cost"`
}

// InvoiceStatus represents the status of a sales invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusIssued    InvoiceStatus = "issued"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Invoice represents a sales invoice that consumes stock FIFO per line
type Invoice struct {
	BaseModel
	InvoiceNumber string        `gorm:"type:varchar(50);unique;index;column:invoice_number"`
	StoreID       uuid.UUID     `gorm:"type:uuid;not null;index;column:store_id"`
	Store         *Store        `gorm:"foreignKey:StoreID"`
	CustomerName  string        `gorm:"type:varchar(200);column:customer_name"`
	Status        InvoiceStatus `gorm:"type:varchar(50);not null;default:'issued';index"`
	CompanyID     *CompanyID    `gorm:"type:varchar(50);column:company_id;index"`
	CreatedBy     uuid.UUID     `gorm:"type:uuid;not null;column:created_by"`
	TotalAmount   float64       `gorm:"type:decimal(15,2);not null;default:0;column:total_amount"`
	Items         []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// InvoiceItem is one invoiced line; Quantity has already been deducted from
// stock lots when the invoice is persisted.
type InvoiceItem struct {
	BaseModel
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index;column:invoice_id"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;column:item_id"`
	Item      *Item     `gorm:"foreignKey:ItemID"`
	Quantity  float64   `gorm:"type:decimal(15,3);not null"`
	UnitPrice float64   `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
}

// NotificationStatus represents the lifecycle of a notification
type NotificationStatus string

const (
	NotificationStatusNew     NotificationStatus = "New"
	NotificationStatusRead    NotificationStatus = "Read"
	NotificationStatusDeleted NotificationStatus = "Deleted"
)

// NotificationPriority represents delivery priority
type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "Low"
	NotificationPriorityMedium NotificationPriority = "Medium"
	NotificationPriorityHigh   NotificationPriority = "High"
)

// Notification represents a user notification
type Notification struct {
	BaseModel
	AssignTo  uuid.UUID            `gorm:"type:uuid;not null;index;column:assign_to"`
	Title     string               `gorm:"type:varchar(200);not null"`
	Message   string               `gorm:"type:varchar(1000);not null"`
	Status    NotificationStatus   `gorm:"type:varchar(20);not null;default:'New';index"`
	Priority  NotificationPriority `gorm:"type:varchar(20);not null;default:'Medium'"`
	AlertType string               `gorm:"type:varchar(50);not null;column:alert_type"`
	EntityID  string               `gorm:"type:varchar(100);column:entity_id"`
	CompanyID *CompanyID           `gorm:"type:varchar(50);column:company_id"`
	ReadAt    *time.Time           `gorm:"column:read_at"`
}

// SystemLogAction represents the type of logged action
type SystemLogAction string

const (
	LogActionCreate  SystemLogAction = "create"
	LogActionUpdate  SystemLogAction = "update"
	LogActionDelete  SystemLogAction = "delete"
	LogActionSubmit  SystemLogAction = "submit"
	LogActionApprove SystemLogAction = "approve"
	LogActionReject  SystemLogAction = "reject"
	LogActionReceive SystemLogAction = "receive"
)

// SystemLog is an append-only audit row written alongside workflow mutations
type SystemLog struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      *uuid.UUID      `gorm:"type:uuid;column:user_id"`
	UserName    string          `gorm:"type:varchar(200);column:user_name"`
	Action      SystemLogAction `gorm:"type:varchar(50);not null"`
	EntityType  string          `gorm:"type:varchar(50);not null;column:entity_type"`
	EntityID    *uuid.UUID      `gorm:"type:uuid;column:entity_id"`
	EntityName  string          `gorm:"type:varchar(200);column:entity_name"`
	Description string          `gorm:"type:varchar(1000)"`
	CompanyID   *CompanyID      `gorm:"type:varchar(50);column:company_id"`
	RequestID   string          `gorm:"type:varchar(100);column:request_id"`
	PerformedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP;column:performed_at"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// Document represents an uploaded file attached to a purchase order
type Document struct {
	BaseModel
	Filename        string     `gorm:"type:varchar(255);not null"`
	ContentType     string     `gorm:"type:varchar(100);not null"`
	Size            int64      `gorm:"not null"`
	StoragePath     string     `gorm:"type:varchar(500);not null;unique;column:storage_path"`
	PurchaseOrderID *uuid.UUID `gorm:"type:uuid;index;column:purchase_order_id"`
	UploadedBy      uuid.UUID  `gorm:"type:uuid;column:uploaded_by"`
}
