package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/Vladimir-spb/foodgram-backend/config"
	"github.com/Vladimir-spb/foodgram-backend/internal/database"
	"github.com/Vladimir-spb/foodgram-backend/internal/logger"
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

	db, err := database.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}
	zlog.Info("migrations applied")
}
