package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
)

// ItemHandler handles HTTP requests for inventory item master data
type ItemHandler struct {
	itemService *service.ItemService
	logger      *zap.Logger
}

func NewItemHandler(itemService *service.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{itemService: itemService, logger: logger}
}

// List godoc
// @Summary List items
// @Tags Items
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by name or SKU"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ItemDTO}
// @Security BearerAuth
// @Router /items [get]
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	search := r.URL.Query().Get("search")

	result, err := h.itemService.List(r.Context(), search, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list items", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get item by ID
// @Tags Items
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Success 200 {object} domain.ItemDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /items/{id} [get]
func (h *ItemHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	item, err := h.itemService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Create godoc
// @Summary Create item
// @Tags Items
// @Accept json
// @Produce json
// @Param request body domain.CreateItemRequest true "Item"
// @Success 201 {object} domain.ItemDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /items [post]
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateItemRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.itemService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// Update godoc
// @Summary Update item
// @Tags Items
// @Accept json
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Param request body domain.UpdateItemRequest true "Item"
// @Success 200 {object} domain.ItemDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /items/{id} [put]
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req domain.UpdateItemRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.itemService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Delete godoc
// @Summary Deactivate item
// @Tags Items
// @Param id path string true "Item ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /items/{id} [delete]
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	if err := h.itemService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Availability godoc
// @Summary Get item availability
// @Description Get the item's remaining stock at a store
// @Tags Items
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Param storeId query string true "Store ID" format(uuid)
// @Success 200 {object} map[string]float64
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /items/{id}/availability [get]
func (h *ItemHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}
	storeID, err := uuid.Parse(r.URL.Query().Get("storeId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid or missing store ID")
		return
	}

	qty, err := h.itemService.Availability(r.Context(), id, storeID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]float64{"available": qty})
}
