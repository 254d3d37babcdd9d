package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/auth"
	"github.com/zephyrixtech/test-inventory-sub001/internal/config"
	"github.com/zephyrixtech/test-inventory-sub001/internal/database"
	"github.com/zephyrixtech/test-inventory-sub001/internal/http/handler"
	"github.com/zephyrixtech/test-inventory-sub001/internal/http/middleware"

	_ "github.com/zephyrixtech/test-inventory-sub001/docs" // Import generated swagger docs
)

type Router struct {
	cfg                   *config.Config
	logger                *zap.Logger
	db                    *gorm.DB
	authMiddleware        *auth.Middleware
	rateLimiter           *middleware.RateLimiter
	auditMiddleware       *middleware.AuditMiddleware
	authHandler           *handler.AuthHandler
	purchaseOrderHandler  *handler.PurchaseOrderHandler
	documentHandler       *handler.DocumentHandler
	invoiceHandler        *handler.InvoiceHandler
	supplierHandler       *handler.SupplierHandler
	storeHandler          *handler.StoreHandler
	itemHandler           *handler.ItemHandler
	workflowConfigHandler *handler.WorkflowConfigHandler
	statusMessageHandler  *handler.StatusMessageHandler
	notificationHandler   *handler.NotificationHandler
	systemLogHandler      *handler.SystemLogHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	authHandler *handler.AuthHandler,
	purchaseOrderHandler *handler.PurchaseOrderHandler,
	documentHandler *handler.DocumentHandler,
	invoiceHandler *handler.InvoiceHandler,
	supplierHandler *handler.SupplierHandler,
	storeHandler *handler.StoreHandler,
	itemHandler *handler.ItemHandler,
	workflowConfigHandler *handler.WorkflowConfigHandler,
	statusMessageHandler *handler.StatusMessageHandler,
	notificationHandler *handler.NotificationHandler,
	systemLogHandler *handler.SystemLogHandler,
) *Router {
	return &Router{
		cfg:                   cfg,
		logger:                logger,
		db:                    db,
		authMiddleware:        authMiddleware,
		rateLimiter:           rateLimiter,
		auditMiddleware:       auditMiddleware,
		authHandler:           authHandler,
		purchaseOrderHandler:  purchaseOrderHandler,
		documentHandler:       documentHandler,
		invoiceHandler:        invoiceHandler,
		supplierHandler:       supplierHandler,
		storeHandler:          storeHandler,
		itemHandler:           itemHandler,
		workflowConfigHandler: workflowConfigHandler,
		statusMessageHandler:  statusMessageHandler,
		notificationHandler:   notificationHandler,
		systemLogHandler:      systemLogHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness probe, checks the database
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		if !allHealthy {
			status = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)
			r.Use(rt.auditMiddleware.Audit)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Purchase orders and the approval workflow
			r.Route("/purchase-orders", func(r chi.Router) {
				r.Get("/", rt.purchaseOrderHandler.List)
				r.Post("/", rt.purchaseOrderHandler.Create)
				r.Get("/{id}", rt.purchaseOrderHandler.GetByID)
				r.Put("/{id}", rt.purchaseOrderHandler.Update)
				r.Delete("/{id}", rt.purchaseOrderHandler.Delete)

				// Lifecycle endpoints
				r.Post("/{id}/submit", rt.purchaseOrderHandler.Submit)
				r.Post("/{id}/approve", rt.purchaseOrderHandler.Approve)
				r.Post("/{id}/reject", rt.purchaseOrderHandler.Reject)
				r.Post("/{id}/receive", rt.purchaseOrderHandler.Receive)

				// Attachments
				r.Get("/{id}/documents", rt.documentHandler.ListByOrder)
				r.Post("/{id}/documents", rt.documentHandler.Upload)
			})

			// Documents
			r.Route("/documents", func(r chi.Router) {
				r.Get("/{documentId}", rt.documentHandler.Download)
				r.Delete("/{documentId}", rt.documentHandler.Delete)
			})

			// Invoices
			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", rt.invoiceHandler.List)
				r.Post("/", rt.invoiceHandler.Create)
				r.Get("/{id}", rt.invoiceHandler.GetByID)
				r.Put("/{id}", rt.invoiceHandler.Update)
				r.Post("/{id}/cancel", rt.invoiceHandler.Cancel)
			})

			// Suppliers
			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", rt.supplierHandler.List)
				r.Post("/", rt.supplierHandler.Create)
				r.Get("/{id}", rt.supplierHandler.GetByID)
				r.Put("/{id}", rt.supplierHandler.Update)
				r.Delete("/{id}", rt.supplierHandler.Delete)
			})

			// Stores
			r.Route("/stores", func(r chi.Router) {
				r.Get("/", rt.storeHandler.List)
				r.Post("/", rt.storeHandler.Create)
				r.Get("/{id}", rt.storeHandler.GetByID)
				r.Put("/{id}", rt.storeHandler.Update)
				r.Delete("/{id}", rt.storeHandler.Delete)
				r.Get("/{id}/stock", rt.storeHandler.StockLevels)
			})

			// Items
			r.Route("/items", func(r chi.Router) {
				r.Get("/", rt.itemHandler.List)
				r.Post("/", rt.itemHandler.Create)
				r.Get("/{id}", rt.itemHandler.GetByID)
				r.Put("/{id}", rt.itemHandler.Update)
				r.Delete("/{id}", rt.itemHandler.Delete)
				r.Get("/{id}/availability", rt.itemHandler.Availability)
			})

			// Status messages
			r.Route("/status-messages", func(r chi.Router) {
				r.Get("/", rt.statusMessageHandler.ListByCategory)
				r.With(rt.authMiddleware.RequireSuperAdmin).Post("/", rt.statusMessageHandler.Create)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/unread-count", rt.notificationHandler.UnreadCount)
				r.Put("/read-all", rt.notificationHandler.MarkAllAsRead)
				r.Put("/{id}/read", rt.notificationHandler.MarkAsRead)
				r.Delete("/{id}", rt.notificationHandler.Delete)
			})

			// Administration, Super Admin only
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireSuperAdmin)

				r.Route("/workflow-configs", func(r chi.Router) {
					r.Get("/", rt.workflowConfigHandler.List)
					r.Post("/", rt.workflowConfigHandler.Create)
					r.Get("/{id}", rt.workflowConfigHandler.GetByID)
					r.Put("/{id}", rt.workflowConfigHandler.Update)
					r.Delete("/{id}", rt.workflowConfigHandler.Delete)
				})

				r.Get("/system-logs", rt.systemLogHandler.List)
			})
		})
	})

	return r
}
