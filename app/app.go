// File: app/app.go
package app

import (
	"context"
	"go-shop-api/client"
	"go-shop-api/config"
	"go-shop-api/db"
	"go-shop-api/handler"
	"go-shop-api/logger"
	"go-shop-api/repository"
	"go-shop-api/router"
	"go-shop-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	// Redis backs the revocation fast path and the catalog cache. A failed
	// connection is not fatal: both consumers degrade gracefully without it.
	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.WithError(err).Warn("Redis unavailable, running with durable revocation tier only")
	}

	// --- Wiring All Layers Together ---

	var revocationCache service.ICacheClient
	var catalogCache client.ICatalogCache
	if redisClient != nil {
		revocationCache = redisClient
		catalogCache = redisClient
	}

	revocations, err := service.NewRevocationStore(
		config.AppConfig.JWT.RevokedTokensFile,
		revocationCache,
		service.AccessTokenTTL(),
	)
	if err != nil {
		logger.Log.Fatalf("Error opening revocation store: %v", err)
	}
	defer revocations.Close()

	tokenService := service.NewTokenService(revocations)
	authMiddleware := handler.NewAuthMiddleware(tokenService, revocations)

	catalogClient := client.NewCatalogClient(
		config.AppConfig.Catalog.BaseURL,
		catalogCache,
		time.Duration(config.AppConfig.Catalog.CacheTTLMinutes)*time.Minute,
	)

	userRepo := repository.NewUserRepository(database)
	orderRepo := repository.NewOrderRepository(database)

	authService := service.NewAuthService(userRepo, tokenService, revocations)
	userService := service.NewUserService(userRepo, authService)
	orderService := service.NewOrderService(orderRepo, userRepo, catalogClient)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	orderHandler := handler.NewOrderHandler(orderService)
	productHandler := handler.NewProductHandler(catalogClient)

	r := router.NewRouter(authMiddleware, authHandler, userHandler, orderHandler, productHandler)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
