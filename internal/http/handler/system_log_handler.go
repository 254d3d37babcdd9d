package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
)

// SystemLogHandler exposes the audit trail. Routes require Super Admin.
type SystemLogHandler struct {
	logService *service.SystemLogService
	logger     *zap.Logger
}

func NewSystemLogHandler(logService *service.SystemLogService, logger *zap.Logger) *SystemLogHandler {
	return &SystemLogHandler{logService: logService, logger: logger}
}

// List godoc
// @Summary List system logs
// @Tags SystemLogs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param userId query string false "Filter by user" format(uuid)
// @Param entityType query string false "Filter by entity type"
// @Param entityId query string false "Filter by entity" format(uuid)
// @Param action query string false "Filter by action" Enums(create, update, delete, submit, approve, reject, receive)
// @Param from query string false "From timestamp (RFC 3339)"
// @Param to query string false "To timestamp (RFC 3339)"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.SystemLogDTO}
// @Security BearerAuth
// @Router /system-logs [get]
func (h *SystemLogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	var filter repository.SystemLogFilter
	filter.EntityType = r.URL.Query().Get("entityType")
	filter.Action = domain.SystemLogAction(r.URL.Query().Get("action"))

	if v := r.URL.Query().Get("userId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid user ID format")
			return
		}
		filter.UserID = &id
	}
	if v := r.URL.Query().Get("entityId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid entity ID format")
			return
		}
		filter.EntityID = &id
	}
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid from timestamp")
			return
		}
		filter.From = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid to timestamp")
			return
		}
		filter.To = &t
	}

	result, err := h.logService.List(r.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list system logs", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
