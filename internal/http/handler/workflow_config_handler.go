package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
)

// WorkflowConfigHandler manages the approval chain configuration endpoints.
// All routes require the Super Admin role.
type WorkflowConfigHandler struct {
	configService *service.WorkflowConfigService
	logger        *zap.Logger
}

func NewWorkflowConfigHandler(configService *service.WorkflowConfigService, logger *zap.Logger) *WorkflowConfigHandler {
	return &WorkflowConfigHandler{configService: configService, logger: logger}
}

// List godoc
// @Summary List workflow configurations
// @Tags WorkflowConfigs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.WorkflowConfigDTO}
// @Security BearerAuth
// @Router /workflow-configs [get]
func (h *WorkflowConfigHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	result, err := h.configService.List(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list workflow configurations", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get workflow configuration by ID
// @Tags WorkflowConfigs
// @Produce json
// @Param id path string true "Configuration ID" format(uuid)
// @Success 200 {object} domain.WorkflowConfigDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workflow-configs/{id} [get]
func (h *WorkflowConfigHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid configuration ID format")
		return
	}

	config, err := h.configService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, config)
}

// Create godoc
// @Summary Create workflow configuration
// @Description Add an approval level. The resulting chain must stay contiguous from level 1.
// @Tags WorkflowConfigs
// @Accept json
// @Produce json
// @Param request body domain.CreateWorkflowConfigRequest true "Configuration"
// @Success 201 {object} domain.WorkflowConfigDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /workflow-configs [post]
func (h *WorkflowConfigHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWorkflowConfigRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	config, err := h.configService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, config)
}

// Update godoc
// @Summary Update workflow configuration
// @Tags WorkflowConfigs
// @Accept json
// @Produce json
// @Param id path string true "Configuration ID" format(uuid)
// @Param request body domain.UpdateWorkflowConfigRequest true "Configuration"
// @Success 200 {object} domain.WorkflowConfigDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workflow-configs/{id} [put]
func (h *WorkflowConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid configuration ID format")
		return
	}

	var req domain.UpdateWorkflowConfigRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	config, err := h.configService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, config)
}

// Delete godoc
// @Summary Delete workflow configuration
// @Tags WorkflowConfigs
// @Param id path string true "Configuration ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workflow-configs/{id} [delete]
func (h *WorkflowConfigHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid configuration ID format")
		return
	}

	if err := h.configService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
