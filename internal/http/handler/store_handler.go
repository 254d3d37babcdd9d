package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
)

// StoreHandler handles HTTP requests for store master data and stock levels
type StoreHandler struct {
	storeService *service.StoreService
	logger       *zap.Logger
}

func NewStoreHandler(storeService *service.StoreService, logger *zap.Logger) *StoreHandler {
	return &StoreHandler{storeService: storeService, logger: logger}
}

// List godoc
// @Summary List stores
// @Tags Stores
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.StoreDTO}
// @Security BearerAuth
// @Router /stores [get]
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	result, err := h.storeService.List(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list stores", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get store by ID
// @Tags Stores
// @Produce json
// @Param id path string true "Store ID" format(uuid)
// @Success 200 {object} domain.StoreDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /stores/{id} [get]
func (h *StoreHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	store, err := h.storeService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, store)
}

// Create godoc
// @Summary Create store
// @Tags Stores
// @Accept json
// @Produce json
// @Param request body domain.CreateStoreRequest true "Store"
// @Success 201 {object} domain.StoreDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /stores [post]
func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStoreRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	store, err := h.storeService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, store)
}

// Update godoc
// @Summary Update store
// @Tags Stores
// @Accept json
// @Produce json
// @Param id path string true "Store ID" format(uuid)
// @Param request body domain.UpdateStoreRequest true "Store"
// @Success 200 {object} domain.StoreDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /stores/{id} [put]
func (h *StoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	var req domain.UpdateStoreRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	store, err := h.storeService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, store)
}

// Delete godoc
// @Summary Deactivate store
// @Tags Stores
// @Param id path string true "Store ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /stores/{id} [delete]
func (h *StoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	if err := h.storeService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StockLevels godoc
// @Summary List store stock levels
// @Description List the store's stock lots with remaining and original quantities
// @Tags Stores
// @Produce json
// @Param id path string true "Store ID" format(uuid)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.StockLotDTO}
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /stores/{id}/stock [get]
func (h *StoreHandler) StockLevels(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	page, pageSize := pagination(r)
	result, err := h.storeService.StockLevels(r.Context(), id, page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
