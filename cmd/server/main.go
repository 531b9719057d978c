package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/facturio/backend/internal/application/billing"
	ledgerapp "github.com/facturio/backend/internal/application/ledger"
	reconapp "github.com/facturio/backend/internal/application/reconciliation"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/cache"
	"github.com/facturio/backend/internal/infrastructure/config"
	"github.com/facturio/backend/internal/infrastructure/event"
	"github.com/facturio/backend/internal/infrastructure/logger"
	"github.com/facturio/backend/internal/infrastructure/persistence"
	"github.com/facturio/backend/internal/infrastructure/telemetry"
	"github.com/facturio/backend/internal/interfaces/http/handler"
	"github.com/facturio/backend/internal/interfaces/http/middleware"
	"github.com/facturio/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/facturio/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Facturio Settlement API
//	@version		1.0
//	@description	Invoicing and settlement backend - document totals, receipt ledger, allocations and bank reconciliation

//	@contact.name	API Support
//	@contact.url	https://github.com/facturio/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	CompanyID
//	@in							header
//	@name						X-Company-ID
//	@description				Company scope for every request. All data access is isolated per company.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Facturio Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database query tracing
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBName:          cfg.Database.DBName,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	allocationRepo := persistence.NewGormAllocationRepository(db.DB)
	creditNoteRepo := persistence.NewGormCreditNoteRepository(db.DB)
	bankLineRepo := persistence.NewGormBankLineRepository(db.DB)
	linkRepo := persistence.NewGormLinkRepository(db.DB)
	taxProvider := persistence.NewGormTaxProvider(db.DB)
	clientDirectory := persistence.NewGormClientDirectory(db.DB)
	numbering := persistence.NewSequenceNumberingStrategy(db.DB)
	txRunner := persistence.NewGormTxRunner(db.DB)

	// Event bus: settlement events fan out to in-process subscribers,
	// starting with the audit log.
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	allocationService := ledgerapp.NewAllocationService(txRunner,
		ledgerapp.WithAllocationEventPublisher(eventBus))

	documentOpts := []billingapp.DocumentServiceOption{
		billingapp.WithDocumentEventPublisher(eventBus),
	}
	if cfg.Settlement.SettleOnFinalize {
		documentOpts = append(documentOpts, billingapp.WithDepositSettlement(allocationService))
	}
	documentService := billingapp.NewDocumentService(
		documentRepo,
		allocationRepo,
		taxProvider,
		clientDirectory,
		numbering,
		documentOpts...,
	)
	receiptService := ledgerapp.NewReceiptService(receiptRepo, allocationRepo, clientDirectory,
		ledgerapp.WithReceiptEventPublisher(eventBus))
	creditNoteService := ledgerapp.NewCreditNoteService(creditNoteRepo, documentRepo,
		ledgerapp.WithCreditNoteEventPublisher(eventBus))
	reconciliationService := reconapp.NewReconciliationService(bankLineRepo, linkRepo, receiptRepo)

	log.Info("Settlement policy",
		zap.Bool("settle_on_finalize", cfg.Settlement.SettleOnFinalize),
		zap.Bool("retain_surplus_as_credit", cfg.Settlement.RetainSurplusAsCredit),
	)

	// Idempotency store for replay protection on mutation endpoints
	var idempotencyStore shared.IdempotencyStore
	switch cfg.Idempotency.Backend {
	case "redis":
		idempotencyStore, err = cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis for idempotency store", zap.Error(err))
		}
		log.Info("Idempotency store using Redis",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	default:
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	documentHandler := handler.NewDocumentHandler(documentService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	allocationHandler := handler.NewAllocationHandler(allocationService)
	creditNoteHandler := handler.NewCreditNoteHandler(creditNoteService, allocationService)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
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
	// 4. Tracing - OpenTelemetry spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Company scoping for all API routes. Every business endpoint requires
	// the X-Company-ID header; system endpoints stay reachable without it.
	r.Use(middleware.CompanyMiddlewareWithConfig(middleware.CompanyMiddlewareConfig{
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system",
		},
		Required: true,
		Logger:   log,
	}))

	// Replay protection for mutating endpoints carrying an Idempotency-Key
	r.Use(middleware.Idempotency(middleware.IdempotencyConfig{
		Store:  idempotencyStore,
		TTL:    cfg.Idempotency.TTL,
		Logger: log,
	}))

	// Billing domain (quotes, invoices, totals)
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.POST("/documents", documentHandler.Create)
	billingRoutes.GET("/documents", documentHandler.List)
	billingRoutes.POST("/documents/preview", documentHandler.PreviewTotals)
	billingRoutes.GET("/documents/:id", documentHandler.GetByID)
	billingRoutes.PUT("/documents/:id", documentHandler.Update)
	billingRoutes.POST("/documents/:id/recompute", documentHandler.Recompute)
	billingRoutes.POST("/documents/:id/finalize", documentHandler.Finalize)
	billingRoutes.POST("/documents/:id/send", documentHandler.MarkSent)
	billingRoutes.POST("/documents/:id/accept", documentHandler.Accept)
	billingRoutes.POST("/documents/:id/expire", documentHandler.Expire)
	billingRoutes.POST("/documents/:id/cancel", documentHandler.Cancel)
	billingRoutes.POST("/documents/:id/archive", documentHandler.Archive)
	r.Register(billingRoutes)

	// Ledger domain (receipts, allocations, credit notes)
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")
	ledgerRoutes.POST("/receipts", receiptHandler.Create)
	ledgerRoutes.GET("/receipts", receiptHandler.List)
	ledgerRoutes.GET("/receipts/:id", receiptHandler.GetByID)
	ledgerRoutes.POST("/receipts/:id/cancel", receiptHandler.Cancel)
	ledgerRoutes.GET("/receipts/:id/allocations", receiptHandler.ListAllocations)
	ledgerRoutes.POST("/allocations", allocationHandler.Allocate)
	ledgerRoutes.POST("/allocations/auto", allocationHandler.AutoAllocate)
	ledgerRoutes.POST("/allocations/deposits", allocationHandler.AutoAllocateDeposits)
	ledgerRoutes.POST("/allocations/:id/reverse", allocationHandler.Reverse)
	ledgerRoutes.POST("/credit-notes", creditNoteHandler.Create)
	ledgerRoutes.GET("/credit-notes", creditNoteHandler.List)
	ledgerRoutes.GET("/credit-notes/:id", creditNoteHandler.GetByID)
	ledgerRoutes.POST("/credit-notes/:id/send", creditNoteHandler.MarkSent)
	ledgerRoutes.POST("/credit-notes/:id/apply", creditNoteHandler.Apply)
	r.Register(ledgerRoutes)

	// Reconciliation domain (bank statement lines, match links)
	reconciliationRoutes := router.NewDomainGroup("reconciliation", "/reconciliation")
	reconciliationRoutes.POST("/bank-lines/import", reconciliationHandler.ImportBankLines)
	reconciliationRoutes.POST("/bank-lines/import-csv", reconciliationHandler.ImportBankLinesCSV)
	reconciliationRoutes.GET("/bank-lines", reconciliationHandler.ListBankLines)
	reconciliationRoutes.POST("/links", reconciliationHandler.ProposeMatch)
	reconciliationRoutes.GET("/links", reconciliationHandler.ListLinks)
	reconciliationRoutes.DELETE("/links/:id", reconciliationHandler.Unmatch)
	r.Register(reconciliationRoutes)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/health", systemHandler.GetHealth)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
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
