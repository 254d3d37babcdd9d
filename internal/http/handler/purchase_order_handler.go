package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
)

// PurchaseOrderHandler handles HTTP requests for purchase orders, including
// the approval workflow actions
type PurchaseOrderHandler struct {
	orderService    *service.PurchaseOrderService
	approvalService *service.ApprovalService
	logger          *zap.Logger
}

func NewPurchaseOrderHandler(
	orderService *service.PurchaseOrderService,
	approvalService *service.ApprovalService,
	logger *zap.Logger,
) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService:    orderService,
		approvalService: approvalService,
		logger:          logger,
	}
}

// List godoc
// @Summary List purchase orders
// @Description Get paginated purchase orders with optional filters
// @Tags PurchaseOrders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param supplierId query string false "Filter by supplier" format(uuid)
// @Param storeId query string false "Filter by store" format(uuid)
// @Param createdBy query string false "Filter by creator" format(uuid)
// @Param pendingRoleId query string false "Filter by role awaiting approval" format(uuid)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.PurchaseOrderDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /purchase-orders [get]
func (h *PurchaseOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	var filter repository.PurchaseOrderFilter
	if v := r.URL.Query().Get("supplierId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid supplier ID format")
			return
		}
		filter.SupplierID = &id
	}
	if v := r.URL.Query().Get("storeId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid store ID format")
			return
		}
		filter.StoreID = &id
	}
	if v := r.URL.Query().Get("createdBy"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid creator ID format")
			return
		}
		filter.CreatedBy = &id
	}
	if v := r.URL.Query().Get("pendingRoleId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid role ID format")
			return
		}
		filter.PendingRoleID = &id
	}

	result, err := h.orderService.List(r.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list purchase orders", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get purchase order by ID
// @Description Get a purchase order with its items and full approval history
// @Tags PurchaseOrders
// @Produce json
// @Param id path string true "Purchase order ID" format(uuid)
// @Success 200 {object} domain.PurchaseOrderDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid purchase order ID format")
		return
	}

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Create godoc
// @Summary Create purchase order
// @Description Draft a new purchase order; it stays editable until submitted
// @Tags PurchaseOrders
// @Accept json
// @Produce json
// @Param request body domain.CreatePurchaseOrderRequest true "Purchase order"
// @Success 201 {object} domain.PurchaseOrderDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePurchaseOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.orderService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create purchase order", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// Update godoc
// @Summary Update purchase order
// @Description Rewrite a draft order; blocked once the workflow is active
// @Tags PurchaseOrders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID" format(uuid)
// @Param request body domain.UpdatePurchaseOrderRequest true "Purchase order"
// @Success 200 {object} domain.PurchaseOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid purchase order ID format")
		return
	}

	var req domain.UpdatePurchaseOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.orderService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Delete godoc
// @Summary Delete purchase order
// @Description Delete a draft order; blocked once the workflow is active
// @Tags PurchaseOrders
// @Param id path string true "Purchase order ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid purchase order ID format")
		return
	}

	if err := h.orderService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Submit godoc
// @Summary Submit purchase order for approval
// @Description Activate the approval workflow at level 1
// @Tags PurchaseOrders
// @Produce json
// @Param id path string true "Purchase order ID" format(uuid)
// @Success 200 {object} domain.PurchaseOrderDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /purchase-orders/{id}/submit [post]
func (h *PurchaseOrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid purchase order ID format")
		return
	}

	order, err := h.approvalService.Submit(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Approve godoc
// @Summary Approve purchase order
// @Description Approve at the current level. Super Admins with override complete all remaining levels.
// @Tags PurchaseOrders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID" format(uuid)
// @Param request body domain.ApproveOrderRequest false "Optional comment"
// @Success 200 {object} domain.PurchaseOrderDTO
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid purchase order ID format")
		return
	}

	var req domain.ApproveOrderRequest
	if r.ContentLength > 0 {
		if err := decodeAndValidate(r, &req); err != nil {
			respondValidationError(w, err)
			return
		}
	}

	order, err := h.approvalService.Approve(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Reject godoc
// @Summary Reject purchase order
// @Description Reject at the current level; a comment is mandatory. Level 1 rejections return the order to its creator.
// @Tags PurchaseOrders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID" format(uuid)
// @Param request body domain.RejectOrderRequest true "Rejection comment"
// @Success 200 {object} domain.PurchaseOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /purchase-orders/{id}/reject [post]
func (h *PurchaseOrderHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid purchase order ID format")
		return
	}

	var req domain.RejectOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.approvalService.Reject(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Receive godoc
// @Summary Receive purchase order goods
// @Description Book goods receipt for a fully approved order, creating stock lots
// @Tags PurchaseOrders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID" format(uuid)
// @Param request body domain.ReceiveOrderRequest false "Optional remarks"
// @Success 200 {object} domain.PurchaseOrderDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid purchase order ID format")
		return
	}

	var req domain.ReceiveOrderRequest
	if r.ContentLength > 0 {
		if err := decodeAndValidate(r, &req); err != nil {
			respondValidationError(w, err)
			return
		}
	}

	order, err := h.orderService.Receive(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
