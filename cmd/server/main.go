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

	"github.com/cixi/storefront-backend/config"
	"github.com/cixi/storefront-backend/internal/app/controller"
	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/internal/app/service"
	"github.com/cixi/storefront-backend/internal/cart"
	"github.com/cixi/storefront-backend/internal/db"
	"github.com/cixi/storefront-backend/internal/middleware"
	"github.com/cixi/storefront-backend/internal/router"
	"github.com/cixi/storefront-backend/internal/scheduler"
	"github.com/cixi/storefront-backend/internal/session"
	"github.com/cixi/storefront-backend/internal/storage"
	ws "github.com/cixi/storefront-backend/internal/websocket"
	"github.com/cixi/storefront-backend/pkg/logger"
	"github.com/cixi/storefront-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Server.ResolvedLogLevel()
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting Cixi storefront server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	conn, err := db.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(conn); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs token revocation and, by default, cart sessions
	if err := redis.Init(&cfg.Redis); err != nil {
		if cfg.Session.Store == "redis" {
			logger.Fatal("Redis is required for the redis session store", err)
		}
		logger.Warn("Redis unavailable, logout revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	var store session.Store
	switch cfg.Session.Store {
	case "memory":
		store = session.NewMemoryStore(cfg.Session.CartTTL)
	default:
		store = session.NewRedisStore(redis.GetClient(), cfg.Session.CartTTL)
	}
	logger.Info("Cart session store ready", map[string]interface{}{
		"store": cfg.Session.Store,
		"ttl":   cfg.Session.CartTTL.String(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	surcharges := cart.DefaultPaperSurcharges.Merge(cfg.Pricing.PaperSurcharges)

	// Initialize repositories
	userRepo := repository.NewUserRepository(conn)
	categoryRepo := repository.NewCategoryRepository(conn)
	productRepo := repository.NewProductRepository(conn)
	kitRepo := repository.NewKitRepository(conn)
	ratingRepo := repository.NewRatingRepository(conn)
	commentRepo := repository.NewCommentRepository(conn)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.Auth.Secret, cfg.Auth.TokenExpiry)
	productService := service.NewProductService(productRepo, categoryRepo, hub)
	categoryService := service.NewCategoryService(categoryRepo)
	kitService := service.NewKitService(kitRepo, productRepo, surcharges, hub)
	ratingService := service.NewRatingService(ratingRepo, productRepo, hub)
	commentService := service.NewCommentService(commentRepo, productRepo)
	cartService := service.NewCartService(store, session.NewLocker(), productRepo, kitRepo, surcharges)
	exportService := service.NewExportService(productRepo)

	controllers := router.Controllers{
		Auth:      controller.NewAuthController(authService, cfg.Auth.CookieSecure),
		Product:   controller.NewProductController(productService),
		Category:  controller.NewCategoryController(categoryService),
		Kit:       controller.NewKitController(kitService),
		Rating:    controller.NewRatingController(ratingService),
		Comment:   controller.NewCommentController(commentService),
		Cart:      controller.NewCartController(cartService),
		Export:    controller.NewExportController(exportService),
		CatalogWS: controller.NewCatalogWSController(hub, cfg.CORS.AllowedOrigins),
	}

	// Object storage is optional; without a bucket uploads and snapshots are off
	if cfg.S3.Bucket != "" {
		s3Storage := storage.NewS3Storage(ctx, cfg.S3)
		controllers.Upload = controller.NewUploadController(s3Storage)

		if cfg.Snapshot.Enabled {
			snapshots := scheduler.NewSnapshotScheduler(cfg.Snapshot.Cron, exportService, s3Storage)
			if err := snapshots.Start(); err != nil {
				logger.Fatal("Failed to start snapshot scheduler", err)
			}
			defer snapshots.Stop()
		}
	} else {
		logger.Warn("AWS_S3_BUCKET not set, image uploads and snapshots disabled")
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.Secret)
	engine := router.NewRouter(controllers, authMiddleware, cfg).Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
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
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	cancel()
	logger.Info("Server stopped successfully")
}
