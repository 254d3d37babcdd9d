package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/docs"
	"github.com/zephyrixtech/test-inventory-sub001/internal/auth"
	"github.com/zephyrixtech/test-inventory-sub001/internal/cache"
	"github.com/zephyrixtech/test-inventory-sub001/internal/config"
	"github.com/zephyrixtech/test-inventory-sub001/internal/database"
	"github.com/zephyrixtech/test-inventory-sub001/internal/erp"
	"github.com/zephyrixtech/test-inventory-sub001/internal/http/handler"
	"github.com/zephyrixtech/test-inventory-sub001/internal/http/middleware"
	"github.com/zephyrixtech/test-inventory-sub001/internal/http/router"
	"github.com/zephyrixtech/test-inventory-sub001/internal/jobs"
	"github.com/zephyrixtech/test-inventory-sub001/internal/logger"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
	"github.com/zephyrixtech/test-inventory-sub001/internal/storage"
)

// @title Inventory Procurement API
// @version 1.0
// @description Purchase order approval workflow and stock management API

// @contact.name API Support
// @contact.email support@zephyrixtech.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging", "production":
		docs.SwaggerInfo.Host = ""
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets.
	// In development: uses environment variables.
	// In staging/production: fetches from Azure Key Vault.
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Optional workflow/status cache. The app falls back to direct database
	// reads when Redis is unavailable.
	var cacheClient *cache.Cache
	if cfg.Redis.Enabled {
		cacheClient, err = cache.New(ctx, &cfg.Redis, log)
		if err != nil {
			log.Warn("Cache connection failed, continuing without it", zap.Error(err))
			cacheClient = nil
		}
	} else {
		log.Info("Cache not configured, skipping")
	}

	// Optional read-only ERP connection for catalog price sync
	var erpClient *erp.Client
	if cfg.ERP.Enabled {
		erpClient, err = erp.NewClient(&cfg.ERP, log)
		if err != nil {
			log.Warn("ERP connection failed, continuing without it", zap.Error(err))
		}
	} else {
		log.Info("ERP connection not configured, skipping")
	}

	// Initialize repositories
	orderRepo := repository.NewPurchaseOrderRepository(db)
	ledgerRepo := repository.NewApprovalLedgerRepository(db)
	configRepo := repository.NewWorkflowConfigRepository(db)
	statusRepo := repository.NewStatusMessageRepository(db)
	stockLotRepo := repository.NewStockLotRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	itemRepo := repository.NewItemRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	systemLogRepo := repository.NewSystemLogRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	// Initialize services
	tokens := auth.NewTokenManager(&cfg.Auth)
	authService := service.NewAuthService(userRepo, tokens, cfg.Auth.TokenTTLDuration(), log)
	approvalService := service.NewApprovalService(
		orderRepo, ledgerRepo, configRepo, statusRepo,
		userRepo, notificationRepo, systemLogRepo,
		cacheClient, log, db,
	)
	orderService := service.NewPurchaseOrderService(
		orderRepo, supplierRepo, storeRepo, itemRepo,
		stockLotRepo, statusRepo, systemLogRepo, log, db,
	)
	invoiceService := service.NewInvoiceService(
		invoiceRepo, stockLotRepo, itemRepo, storeRepo,
		systemLogRepo, log, db,
	)
	workflowConfigService := service.NewWorkflowConfigService(configRepo, roleRepo, cacheClient, log)
	supplierService := service.NewSupplierService(supplierRepo, log)
	storeService := service.NewStoreService(storeRepo, stockLotRepo, log)
	itemService := service.NewItemService(itemRepo, supplierRepo, stockLotRepo, log)
	statusMessageService := service.NewStatusMessageService(statusRepo, cacheClient, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	systemLogService := service.NewSystemLogService(systemLogRepo, log)
	documentService := service.NewDocumentService(documentRepo, orderRepo, fileStorage, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(systemLogService, nil, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	orderHandler := handler.NewPurchaseOrderHandler(orderService, approvalService, log)
	documentHandler := handler.NewDocumentHandler(documentService, log)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, log)
	supplierHandler := handler.NewSupplierHandler(supplierService, log)
	storeHandler := handler.NewStoreHandler(storeService, log)
	itemHandler := handler.NewItemHandler(itemService, log)
	workflowConfigHandler := handler.NewWorkflowConfigHandler(workflowConfigService, log)
	statusMessageHandler := handler.NewStatusMessageHandler(statusMessageService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	systemLogHandler := handler.NewSystemLogHandler(systemLogService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		auditMiddleware,
		authHandler,
		orderHandler,
		documentHandler,
		invoiceHandler,
		supplierHandler,
		storeHandler,
		itemHandler,
		workflowConfigHandler,
		statusMessageHandler,
		notificationHandler,
		systemLogHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		reminderJob := jobs.NewReminderJob(
			orderRepo, userRepo, notificationRepo, log,
			time.Duration(cfg.Jobs.ReminderAfterHours)*time.Hour,
			5*time.Minute,
		)
		if err := scheduler.AddJob(jobs.ReminderJobName, cfg.Jobs.ReminderSchedule, reminderJob.Run); err != nil {
			log.Error("Failed to register reminder job", zap.Error(err))
		}

		if erpClient.IsEnabled() {
			erpSyncJob := jobs.NewERPSyncJob(erpClient, itemRepo, log, 10*time.Minute)
			if err := scheduler.AddJob(jobs.ERPSyncJobName, cfg.Jobs.ERPSyncSchedule, erpSyncJob.Run); err != nil {
				log.Error("Failed to register ERP sync job", zap.Error(err))
			}
		}

		scheduler.Start()
		log.Info("Scheduler started", zap.Strings("jobs", scheduler.GetJobNames()))
	} else {
		log.Info("Background jobs disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if err := erpClient.Close(); err != nil {
			log.Warn("Error closing ERP connection", zap.Error(err))
		}
		if cacheClient.Enabled() {
			if err := cacheClient.Close(); err != nil {
				log.Warn("Error closing cache connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
