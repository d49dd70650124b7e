package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sibors/sibors-backend/config"
	"github.com/sibors/sibors-backend/internal/app/controller"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/internal/app/service"
	"github.com/sibors/sibors-backend/internal/db"
	"github.com/sibors/sibors-backend/internal/middleware"
	"github.com/sibors/sibors-backend/internal/router"
	"github.com/sibors/sibors-backend/internal/scheduler"
	"github.com/sibors/sibors-backend/internal/storage"
	ws "github.com/sibors/sibors-backend/internal/websocket"
	"github.com/sibors/sibors-backend/pkg/logger"
	"github.com/sibors/sibors-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
	})

	logger.Info("Starting SIBORS Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations and the initial seed
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	database := db.GetDB()

	// Image storage
	var images storage.ImageStore
	switch cfg.Images.Storage {
	case "s3":
		images = storage.NewS3ImageStore(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL)
	default:
		local, err := storage.NewLocalImageStore(cfg.Images.Dir)
		if err != nil {
			logger.Fatal("Failed to prepare image directory", err)
		}
		images = local
	}
	staging, err := storage.NewLocalImageStore(cfg.Images.UploadDir)
	if err != nil {
		logger.Fatal("Failed to prepare upload directory", err)
	}

	// Token revocation is optional
	var revoker service.TokenRevoker
	if cfg.Redis.Host != "" {
		blacklist, err := redis.NewBlacklist(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, logout will not revoke tokens", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			revoker = blacklist
			defer blacklist.Close()
		}
	}

	// Stock event hub
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	roleRepo := repository.NewRoleRepository(database)
	companyRepo := repository.NewCompanyRepository(database)
	productRepo := repository.NewProductRepository(database)
	movementRepo := repository.NewStockMovementRepository(database)
	attributeRepo := repository.NewAttributeRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	supplierRepo := repository.NewSupplierRepository(database)
	customerRepo := repository.NewCustomerRepository(database)
	purchaseRepo := repository.NewPurchaseRepository(database)
	saleRepo := repository.NewSaleRepository(database)
	auditRepo := repository.NewAuditRepository(database)
	accountingRepo := repository.NewAccountingRepository(database)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	userService := service.NewUserService(userRepo, roleRepo)
	roleService := service.NewRoleService(database, roleRepo)
	companyService := service.NewCompanyService(companyRepo)
	attributeService := service.NewAttributeService(attributeRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	customerService := service.NewCustomerService(customerRepo)
	stockService := service.NewStockService(database, productRepo, movementRepo, hub)
	templateService := service.NewTemplateService(database, productRepo, attributeRepo, categoryRepo,
		supplierRepo, stockService, images, hub)
	catalogService := service.NewCatalogIOService(database, productRepo, attributeRepo, categoryRepo,
		supplierRepo, stockService, hub)
	purchaseService := service.NewPurchaseService(database, purchaseRepo, supplierRepo, productRepo,
		accountingRepo, stockService, hub)
	saleService := service.NewSaleService(database, saleRepo, productRepo, customerRepo,
		accountingRepo, stockService, hub)
	auditService := service.NewAuditService(database, auditRepo, productRepo, stockService, hub)
	accountingService := service.NewAccountingService(accountingRepo)
	dashboardService := service.NewDashboardService(accountingRepo, saleRepo, productRepo, movementRepo)

	// Ledger integrity job
	ledgerScheduler := scheduler.NewLedgerScheduler(stockService, cfg.Scheduler.LedgerCheckSchedule)
	if err := ledgerScheduler.Start(); err != nil {
		logger.Fatal("Failed to start ledger scheduler", err)
	}
	defer ledgerScheduler.Stop()

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, revoker)

	// Setup router
	r := router.NewRouter(router.Controllers{
		Auth:       controller.NewAuthController(authService),
		User:       controller.NewUserController(userService),
		Role:       controller.NewRoleController(roleService),
		Company:    controller.NewCompanyController(companyService),
		Attribute:  controller.NewAttributeController(attributeService),
		Category:   controller.NewCategoryController(categoryService),
		Supplier:   controller.NewSupplierController(supplierService),
		Customer:   controller.NewCustomerController(customerService),
		Template:   controller.NewTemplateController(templateService),
		Stock:      controller.NewStockController(stockService),
		Catalog:    controller.NewCatalogController(catalogService),
		Purchase:   controller.NewPurchaseController(purchaseService),
		Sale:       controller.NewSaleController(saleService),
		Audit:      controller.NewAuditController(auditService),
		Accounting: controller.NewAccountingController(accountingService),
		Dashboard:  controller.NewDashboardController(dashboardService),
		Upload:     controller.NewUploadController(staging),
		StockFeed:  controller.NewStockFeedController(hub, cfg.CORS.AllowedOrigins),
	}, authMiddleware, cfg)
	engine := r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
