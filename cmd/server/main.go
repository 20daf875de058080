package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	accountingapp "github.com/rentalworks/backend/internal/application/accounting"
	catalogapp "github.com/rentalworks/backend/internal/application/catalog"
	partnerapp "github.com/rentalworks/backend/internal/application/partner"
	rentalapp "github.com/rentalworks/backend/internal/application/rental"
	"github.com/rentalworks/backend/internal/infrastructure/config"
	"github.com/rentalworks/backend/internal/infrastructure/logger"
	"github.com/rentalworks/backend/internal/infrastructure/persistence"
	"github.com/rentalworks/backend/internal/interfaces/http/handler"
	"github.com/rentalworks/backend/internal/interfaces/http/middleware"
	"github.com/rentalworks/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Rental Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	masterItemRepo := persistence.NewGormMasterItemRepository(db.DB)
	subItemRepo := persistence.NewGormSubItemRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	recordRepo := persistence.NewGormFinancialRecordRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)

	// Initialize application services
	customerService := partnerapp.NewCustomerService(customerRepo)
	itemService := catalogapp.NewItemService(masterItemRepo, subItemRepo)
	invoiceService := rentalapp.NewInvoiceService(
		invoiceRepo,
		customerRepo,
		masterItemRepo,
		subItemRepo,
		recordRepo,
		rentalapp.InvoicePolicy{RejectDoubleBooking: cfg.Rental.RejectDoubleBooking},
		log,
	)
	recordService := accountingapp.NewRecordService(recordRepo, accountRepo)
	accountService := accountingapp.NewAccountService(accountRepo, recordRepo)

	// Initialize HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	itemHandler := handler.NewItemHandler(itemService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	recordHandler := handler.NewRecordHandler(recordService)
	accountHandler := handler.NewAccountHandler(accountService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Report validation errors by json field name
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Partner domain (customers)
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/:id", customerHandler.GetByID)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.DELETE("/customers/:id", customerHandler.Delete)
	partnerRoutes.POST("/customers/:id/activate", customerHandler.Activate)
	partnerRoutes.POST("/customers/:id/deactivate", customerHandler.Deactivate)

	// Catalog domain (master items, sub-items)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/items", itemHandler.CreateMaster)
	catalogRoutes.GET("/items", itemHandler.ListMasters)
	catalogRoutes.GET("/items/:id", itemHandler.GetMasterByID)
	catalogRoutes.PUT("/items/:id", itemHandler.UpdateMaster)
	catalogRoutes.DELETE("/items/:id", itemHandler.DeleteMaster)
	catalogRoutes.GET("/items/:id/sub-items", itemHandler.ListSubsByMaster)
	catalogRoutes.POST("/sub-items", itemHandler.CreateSub)
	catalogRoutes.GET("/sub-items", itemHandler.ListSubs)
	catalogRoutes.PUT("/sub-items/status", itemHandler.UpdateStatus)
	catalogRoutes.GET("/sub-items/:id", itemHandler.GetSubByID)
	catalogRoutes.PUT("/sub-items/:id", itemHandler.UpdateSub)
	catalogRoutes.DELETE("/sub-items/:id", itemHandler.DeleteSub)

	// Rental domain (invoices, status synchronization)
	rentalRoutes := router.NewDomainGroup("rental", "/rental")
	rentalRoutes.POST("/invoices", invoiceHandler.Create)
	rentalRoutes.GET("/invoices", invoiceHandler.List)
	rentalRoutes.GET("/invoices/latest", invoiceHandler.GetLatest)
	rentalRoutes.GET("/invoices/number/:number", invoiceHandler.GetByNumber)
	rentalRoutes.GET("/invoices/number/:number/previous", invoiceHandler.GetPrevious)
	rentalRoutes.GET("/invoices/number/:number/next", invoiceHandler.GetNext)
	rentalRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	rentalRoutes.PUT("/invoices/:id", invoiceHandler.Update)
	rentalRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)
	rentalRoutes.PUT("/items/status", invoiceHandler.UpdateItemStatus)
	rentalRoutes.PUT("/items/delivery-status", invoiceHandler.UpdateDeliveryStatus)

	// Accounting domain (financial records, ledger accounts)
	accountingRoutes := router.NewDomainGroup("accounting", "/accounting")
	accountingRoutes.POST("/records", recordHandler.Create)
	accountingRoutes.GET("/records", recordHandler.List)
	accountingRoutes.POST("/records/batch", recordHandler.CreateBatch)
	accountingRoutes.POST("/records/batch-delete", recordHandler.DeleteBatch)
	accountingRoutes.GET("/records/serial/:serial", recordHandler.GetBySerialNumber)
	accountingRoutes.GET("/records/invoice/:id", recordHandler.ListByInvoice)
	accountingRoutes.GET("/records/:id", recordHandler.GetByID)
	accountingRoutes.DELETE("/records/:id", recordHandler.Delete)
	accountingRoutes.POST("/accounts", accountHandler.Create)
	accountingRoutes.GET("/accounts", accountHandler.List)
	accountingRoutes.GET("/accounts/:id", accountHandler.GetByID)
	accountingRoutes.PUT("/accounts/:id", accountHandler.Update)
	accountingRoutes.DELETE("/accounts/:id", accountHandler.Delete)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(partnerRoutes).
		Register(catalogRoutes).
		Register(rentalRoutes).
		Register(accountingRoutes).
		Register(systemRoutes)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
