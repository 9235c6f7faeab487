package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sgspadmin/internal/analytics"
	"sgspadmin/internal/caching"
	"sgspadmin/internal/config"
	"sgspadmin/internal/handlers"
	"sgspadmin/internal/invoice"
	"sgspadmin/internal/jobs"
	"sgspadmin/internal/jobs/background"
	"sgspadmin/internal/middleware"
	"sgspadmin/internal/repositories"
	"sgspadmin/internal/services"
	"sgspadmin/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	version         = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.UsesDevSecret() {
		log.Printf("WARNING: JWT_SECRET is the development default; set a long random value before deploying")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := database.Migrate(cfg.DatabaseURL, "up"); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Database migrations applied")
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.ClosePool(pool)

	var cacheSvc caching.CacheService
	if cfg.RedisEnabled() {
		cacheSvc = caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer cacheSvc.Close()
	}

	var blacklist services.TokenBlacklist = services.NewMemoryBlacklist()
	if cfg.BlacklistBackend == config.BlacklistRedis {
		blacklist = services.NewRedisBlacklist(cacheSvc, time.Now)
	}
	log.Printf("Token blacklist backend: %s", cfg.BlacklistBackend)

	var minioSvc services.MinioService
	if cfg.MinioEnabled() {
		minioSvc, err = services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO service: %v", err)
		}
		for _, bucket := range []string{cfg.ProductImageBucket, cfg.InvoiceArchiveBucket} {
			if bucket == "" {
				continue
			}
			if err := minioSvc.EnsureBucketExists(ctx, bucket); err != nil {
				log.Printf("WARN: bucket %s unavailable: %v", bucket, err)
			}
		}
	} else {
		log.Printf("WARN: MINIO_ENDPOINT not set; product image storage is disabled")
	}

	// Repositories
	adminRepo := repositories.NewAdminRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	orderStatsRepo := repositories.NewOrderStatsRepo(pool)
	invoiceSeqRepo := repositories.NewInvoiceSequenceRepo(pool)

	// Services
	tokenSvc := services.NewTokenService(cfg.JWTSecret)
	hasher := services.NewBcryptHasher(cfg.BcryptCost)
	sessionSvc := services.NewSessionService(adminRepo, tokenSvc, blacklist, hasher, time.Now, services.SessionConfig{
		TokenTTL:    cfg.TokenTTL(),
		FallbackTTL: cfg.LogoutFallback(),
	})
	adminSvc := services.NewAdminService(adminRepo, hasher)
	categorySvc := services.NewCategoryService(categoryRepo, productRepo)
	productSvc := services.NewProductService(productRepo, categoryRepo, minioSvc, cacheSvc, cfg.ProductImageBucket)
	dashboardSvc := analytics.NewDashboardService(productRepo, categoryRepo, orderStatsRepo, cacheSvc, time.Now)
	invoiceNumbers := services.NewInvoiceNumberService(invoiceSeqRepo)
	invoiceBuilder := invoice.NewBuilder(invoice.DefaultIssuer(), invoice.DefaultBankDetails())

	scheduler, err := background.NewJobScheduler()
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	// without redis there is no cached copy to keep warm
	if cacheSvc != nil {
		if err := scheduler.Every("dashboard-refresh", cfg.DashboardRefresh(), dashboardSvc.Refresh); err != nil {
			log.Fatalf("Failed to schedule dashboard refresh: %v", err)
		}
	}
	lowStockAlerts := jobs.NewInventoryAlertService(productSvc)
	if err := scheduler.Every("low-stock-check", cfg.LowStockCheck(), lowStockAlerts.ScheduledLowStockCheck); err != nil {
		log.Fatalf("Failed to schedule low stock check: %v", err)
	}
	scheduler.Start()

	router := &handlers.Router{
		Auth:       handlers.NewAuthHandlers(sessionSvc),
		Admins:     handlers.NewAdminHandlers(adminSvc),
		Categories: handlers.NewCategoryHandlers(categorySvc),
		Products:   handlers.NewProductHandlers(productSvc),
		Inventory:  handlers.NewInventoryHandlers(productSvc),
		Dashboard:  handlers.NewDashboardHandlers(dashboardSvc),
		Invoices: handlers.NewInvoiceHandlers(invoiceNumbers, invoiceBuilder, minioSvc,
			cfg.InvoiceArchiveBucket, cfg.InvoiceFileRoot),
		Health: handlers.NewHealthHandlers(pool, cacheSvc, minioSvc,
			[]string{cfg.ProductImageBucket, cfg.InvoiceArchiveBucket}, version),
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("%s %s %d %v id=%s err=%v", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error)
				return nil
			}
			log.Printf("%s %s %d %v id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	e.Use(echoMiddleware.BodyLimit("20M"))
	e.Static("/uploads", "uploads")

	router.Register(e, middleware.AuthGate(tokenSvc, blacklist, time.Now))

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		log.Printf("SGSP admin API %s listening on %s (%s)", version, addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := scheduler.Stop(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
