package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resellscan/internal/api"
	"resellscan/internal/api/handlers"
	"resellscan/internal/repository"
	"resellscan/internal/service"
	"resellscan/internal/session"
	"resellscan/pkg/auth"
	"resellscan/pkg/config"
	"resellscan/pkg/logger"
	"resellscan/pkg/postgres"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title ResellScan API
// @version 1.0
// @description Barcode lookup, pricing recommendations and inventory tracking for resellers

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting ResellScan service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	productRepo := repository.NewProductRepository(db, appLogger)
	scanRepo := repository.NewScanRepository(db, appLogger)
	inventoryRepo := repository.NewInventoryRepository(db, appLogger)

	// Session registrations live in Redis so heartbeat reads stay cheap.
	// Falls back to the database table when Redis is unreachable.
	var sessionStore session.Store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Warn("Redis unavailable, using database session store", zap.Error(err))
		sessionStore = repository.NewSessionRepository(db, appLogger)
	} else {
		defer redisClient.Close()
		sessionStore = session.NewRedisStore(redisClient)
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	marketplaceService := service.NewMarketplaceService(&cfg.Marketplace, appLogger)
	scanService := service.NewScanService(productRepo, scanRepo, marketplaceService, appLogger)
	inventoryService := service.NewInventoryService(inventoryRepo, appLogger)
	sessionService := service.NewSessionService(sessionStore, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	scanHandler := handlers.NewScanHandler(scanService, appLogger)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, appLogger)
	sessionHandler := handlers.NewSessionHandler(sessionService, appLogger)

	// Setup router
	app := api.SetupRouter(authHandler, scanHandler, inventoryHandler, sessionHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
