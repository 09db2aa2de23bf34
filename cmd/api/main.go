package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Vladimir-spb/foodgram-backend/config"
	"github.com/Vladimir-spb/foodgram-backend/internal/api"
	"github.com/Vladimir-spb/foodgram-backend/internal/database"
	"github.com/Vladimir-spb/foodgram-backend/internal/logger"
	"github.com/Vladimir-spb/foodgram-backend/internal/middleware"
	"github.com/Vladimir-spb/foodgram-backend/internal/router"
	"github.com/Vladimir-spb/foodgram-backend/internal/server"
	"github.com/Vladimir-spb/foodgram-backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	// Redis only backs the rate limiter; the API still works without it.
	var limiter *middleware.RateLimiter
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		zlog.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
	} else {
		limiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     60,
			KeyPrefix: "foodgram:ratelimit",
		})
	}

	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		zlog.Fatal("failed to initialize S3", zap.Error(err))
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	favoriteService := service.NewFavoriteService(db)
	shoppingListService := service.NewShoppingListService(db)
	followService := service.NewFollowService(db)
	imageService := service.NewImageService(s3Config, cfg.MediaRoot, zlog)

	handlers := router.Handlers{
		Auth: api.NewAuthHandler(authService),
		Recipe: api.NewRecipeHandler(
			recipeService, favoriteService, shoppingListService,
			followService, imageService, authService, zlog,
		),
		Catalog: api.NewCatalogHandler(db),
		Follow:  api.NewFollowHandler(followService),
		Health:  api.NewHealthHandler(db),
	}

	engine := router.SetupRouter(handlers, authService, limiter, cfg.MediaRoot)
	srv := server.New(engine, cfg.ServerHost+":"+cfg.ServerPort, zlog)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zlog.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		zlog.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("server shutdown error", zap.Error(err))
	}
	zlog.Info("server stopped")
}
