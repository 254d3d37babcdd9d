package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/auth"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
)

// AuditConfig holds configuration for audit middleware
type AuditConfig struct {
	// SkipPaths contains path prefixes that should not be audited. Purchase
	// orders and invoices log inside their service transaction and are
	// skipped here to avoid double entries.
	SkipPaths []string
	// SkipMethods contains HTTP methods that should not be audited
	SkipMethods []string
}

// DefaultAuditConfig returns default audit configuration
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		SkipPaths: []string{
			"/health",
			"/swagger",
			"/api/v1/auth",
			"/api/v1/purchase-orders",
			"/api/v1/invoices",
			"/api/v1/notifications",
		},
		SkipMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
		},
	}
}

// AuditMiddleware records successful mutations to the system log
type AuditMiddleware struct {
	systemLogService *service.SystemLogService
	config           *AuditConfig
	logger           *zap.Logger
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware(systemLogService *service.SystemLogService, config *AuditConfig, logger *zap.Logger) *AuditMiddleware {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &AuditMiddleware{
		systemLogService: systemLogService,
		config:           config,
		logger:           logger,
	}
}

// Audit returns middleware that logs modifications to the system log
func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.shouldAudit(r) {
			next.ServeHTTP(w, r)
			return
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		m.logAudit(r, rw.statusCode)
	})
}

func (m *AuditMiddleware) shouldAudit(r *http.Request) bool {
	for _, method := range m.config.SkipMethods {
		if r.Method == method {
			return false
		}
	}

	path := r.URL.Path
	for _, skipPath := range m.config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return false
		}
	}

	return true
}

func (m *AuditMiddleware) logAudit(r *http.Request, statusCode int) {
	if m.systemLogService == nil {
		return
	}

	// Only log successful modifications
	if statusCode < 200 || statusCode >= 300 {
		return
	}

	action := m.methodToAction(r.Method)
	if action == "" {
		return
	}

	entityType, entityID := m.extractEntityInfo(r)

	entry := &domain.SystemLog{
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		RequestID:   r.Header.Get("X-Request-ID"),
		PerformedAt: time.Now().UTC(),
	}

	if userCtx, ok := auth.FromContext(r.Context()); ok {
		entry.UserID = &userCtx.UserID
		entry.UserName = userCtx.DisplayName
		if userCtx.CompanyID != "" {
			companyID := userCtx.CompanyID
			entry.CompanyID = &companyID
		}
	}

	// Detach from the request context so a cancelled request does not lose
	// the audit entry
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.systemLogService.Record(ctx, entry); err != nil {
		m.logger.Warn("failed to create audit log entry",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.Error(err))
	}
}

func (m *AuditMiddleware) methodToAction(method string) domain.SystemLogAction {
	switch method {
	case http.MethodPost:
		return domain.LogActionCreate
	case http.MethodPut, http.MethodPatch:
		return domain.LogActionUpdate
	case http.MethodDelete:
		return domain.LogActionDelete
	default:
		return ""
	}
}

// extractEntityInfo extracts entity type and ID from the request path
func (m *AuditMiddleware) extractEntityInfo(r *http.Request) (string, *uuid.UUID) {
	routeCtx := chi.RouteContext(r.Context())
	if routeCtx == nil {
		return m.parseEntityFromPath(r.URL.Path), nil
	}

	var entityID *uuid.UUID
	if idStr := routeCtx.URLParam("id"); idStr != "" {
		if id, err := uuid.Parse(idStr); err == nil {
			entityID = &id
		}
	}

	entityType := m.parseEntityFromPath(routeCtx.RoutePattern())

	return entityType, entityID
}

// parseEntityFromPath extracts entity type from a URL path
func (m *AuditMiddleware) parseEntityFromPath(path string) string {
	entityMap := map[string]string{
		"suppliers":        "Supplier",
		"stores":           "Store",
		"items":            "Item",
		"workflow-configs": "WorkflowConfig",
		"status-messages":  "StatusMessage",
		"documents":        "Document",
	}

	for segment, entity := range entityMap {
		if strings.Contains(path, "/"+segment) {
			return entity
		}
	}

	return "Unknown"
}
