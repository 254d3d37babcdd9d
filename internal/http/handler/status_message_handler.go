package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
)

// StatusMessageHandler serves the configurable status display texts
type StatusMessageHandler struct {
	statusService *service.StatusMessageService
	logger        *zap.Logger
}

func NewStatusMessageHandler(statusService *service.StatusMessageService, logger *zap.Logger) *StatusMessageHandler {
	return &StatusMessageHandler{statusService: statusService, logger: logger}
}

// ListByCategory godoc
// @Summary List status messages
// @Tags StatusMessages
// @Produce json
// @Param category query string true "Category, e.g. Purchase Order"
// @Success 200 {array} domain.StatusMessageDTO
// @Security BearerAuth
// @Router /status-messages [get]
func (h *StatusMessageHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		respondWithError(w, http.StatusBadRequest, "Missing category parameter")
		return
	}

	statuses, err := h.statusService.ListByCategory(r.Context(), category)
	if err != nil {
		h.logger.Error("failed to list status messages", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statuses)
}

// Create godoc
// @Summary Create status message
// @Tags StatusMessages
// @Accept json
// @Produce json
// @Param request body domain.CreateStatusMessageRequest true "Status message"
// @Success 201 {object} domain.StatusMessageDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /status-messages [post]
func (h *StatusMessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStatusMessageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	status, err := h.statusService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, status)
}
