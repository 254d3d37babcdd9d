package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate or stale version)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrSupplierNotFound is returned when a supplier is not found
	ErrSupplierNotFound = errors.New("supplier not found")

	// ErrStoreNotFound is returned when a store is not found
	ErrStoreNotFound = errors.New("store not found")

	// ErrItemNotFound is returned when an inventory item is not found
	ErrItemNotFound = errors.New("item not found")

	// ErrOrderNotFound is returned when a purchase order is not found
	ErrOrderNotFound = errors.New("purchase order not found")

	// ErrOrderNotEditable is returned when an order in an active or completed
	// workflow is modified
	ErrOrderNotEditable = errors.New("purchase order cannot be modified in its current state")

	// ErrOrderNotApproved is returned when goods receipt is attempted before
	// the workflow has completed
	ErrOrderNotApproved = errors.New("purchase order has not completed approval")

	// ErrOrderAlreadyReceived is returned when goods receipt is attempted twice
	ErrOrderAlreadyReceived = errors.New("purchase order has already been received")

	// ErrWorkflowConfig is returned when the approval workflow configuration
	// is missing or malformed
	ErrWorkflowConfig = errors.New("approval workflow is not configured correctly")

	// ErrCommentRequired is returned when a rejection is submitted without a comment
	ErrCommentRequired = errors.New("a comment is required when rejecting")

	// ErrInsufficientStock is returned when an invoice asks for more stock
	// than is available
	ErrInsufficientStock = errors.New("insufficient stock")
)
