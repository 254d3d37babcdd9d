package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
)

// SupplierHandler handles HTTP requests for supplier master data
type SupplierHandler struct {
	supplierService *service.SupplierService
	logger          *zap.Logger
}

func NewSupplierHandler(supplierService *service.SupplierService, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService, logger: logger}
}

// List godoc
// @Summary List suppliers
// @Tags Suppliers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by name or organization number"
// @Param status query string false "Filter by status" Enums(active, inactive, blacklisted)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.SupplierDTO}
// @Security BearerAuth
// @Router /suppliers [get]
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	search := r.URL.Query().Get("search")
	status := domain.SupplierStatus(r.URL.Query().Get("status"))

	result, err := h.supplierService.List(r.Context(), search, status, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list suppliers", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get supplier by ID
// @Tags Suppliers
// @Produce json
// @Param id path string true "Supplier ID" format(uuid)
// @Success 200 {object} domain.SupplierDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /suppliers/{id} [get]
func (h *SupplierHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	supplier, err := h.supplierService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

// Create godoc
// @Summary Create supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param request body domain.CreateSupplierRequest true "Supplier"
// @Success 201 {object} domain.SupplierDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /suppliers [post]
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSupplierRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	supplier, err := h.supplierService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, supplier)
}

// Update godoc
// @Summary Update supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param id path string true "Supplier ID" format(uuid)
// @Param request body domain.UpdateSupplierRequest true "Supplier"
// @Success 200 {object} domain.SupplierDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /suppliers/{id} [put]
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	var req domain.UpdateSupplierRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	supplier, err := h.supplierService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

// Delete godoc
// @Summary Deactivate supplier
// @Tags Suppliers
// @Param id path string true "Supplier ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	if err := h.supplierService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
