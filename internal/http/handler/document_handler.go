package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
)

// maxUploadSize caps attachment uploads at 25 MB
const maxUploadSize = 25 << 20

// DocumentHandler handles purchase order attachments
type DocumentHandler struct {
	documentService *service.DocumentService
	logger          *zap.Logger
}

func NewDocumentHandler(documentService *service.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, logger: logger}
}

// Upload godoc
// @Summary Upload attachment
// @Description Attach a file to a purchase order (multipart form, field "file")
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Purchase order ID" format(uuid)
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.DocumentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /purchase-orders/{id}/documents [post]
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid purchase order ID format")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "File too large or malformed form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	document, err := h.documentService.Upload(r.Context(), orderID, header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("failed to upload attachment", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, document)
}

// ListByOrder godoc
// @Summary List attachments
// @Tags Documents
// @Produce json
// @Param id path string true "Purchase order ID" format(uuid)
// @Success 200 {array} domain.DocumentDTO
// @Security BearerAuth
// @Router /purchase-orders/{id}/documents [get]
func (h *DocumentHandler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid purchase order ID format")
		return
	}

	documents, err := h.documentService.ListByOrder(r.Context(), orderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, documents)
}

// Download godoc
// @Summary Download attachment
// @Tags Documents
// @Produce octet-stream
// @Param documentId path string true "Document ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /documents/{documentId} [get]
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "documentId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID format")
		return
	}

	document, reader, err := h.documentService.Download(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", document.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", document.Size))
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("attachment stream interrupted",
			zap.String("documentId", id.String()), zap.Error(err))
	}
}

// Delete godoc
// @Summary Delete attachment
// @Tags Documents
// @Param documentId path string true "Document ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /documents/{documentId} [delete]
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "documentId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID format")
		return
	}

	if err := h.documentService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
