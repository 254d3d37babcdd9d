package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
)

// InvoiceHandler handles HTTP requests for sales invoices
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	logger         *zap.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, logger: logger}
}

// List godoc
// @Summary List invoices
// @Tags Invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param storeId query string false "Filter by store" format(uuid)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.InvoiceDTO}
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	var storeID *uuid.UUID
	if v := r.URL.Query().Get("storeId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid store ID format")
			return
		}
		storeID = &id
	}

	result, err := h.invoiceService.List(r.Context(), storeID, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list invoices", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get invoice by ID
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Success 200 {object} domain.InvoiceDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

// Create godoc
// @Summary Issue invoice
// @Description Issue a sales invoice, deducting stock lots oldest first. Fails entirely if any line is short on stock.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body domain.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Failure 422 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInvoiceRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	invoice, err := h.invoiceService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create invoice", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, invoice)
}

// Update godoc
// @Summary Update invoice
// @Description Replace an invoice's lines; stock is restored then re-deducted so unchanged lines net to zero
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Param request body domain.UpdateInvoiceRequest true "Invoice lines"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 422 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var req domain.UpdateInvoiceRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	invoice, err := h.invoiceService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

// Cancel godoc
// @Summary Cancel invoice
// @Description Void an invoice and return its stock to the lots
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Success 200 {object} domain.InvoiceDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.Cancel(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}
