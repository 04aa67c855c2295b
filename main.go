package main

import (
	"context"
	"log"
	"os"
	"time"

	"user-accounts/cmd"
	"user-accounts/internal/data/repository"
	"user-accounts/internal/wire"
	"user-accounts/pkg/database"
	"user-accounts/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	if err := run(config, logger); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(config *utils.Config, logger *zap.Logger) error {
	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(migrateCtx, db); err != nil {
		return err
	}

	logger.Info("Database connected successfully")

	// Redis is optional, it only backs the login rate limit
	var cache *redis.Client
	if config.Redis.URL != "" {
		redisCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cache, err = database.NewRedisClient(redisCtx, config.Redis.URL)
		if err != nil {
			return err
		}
		defer cache.Close()
		logger.Info("Redis connected, login rate limit enabled")
	}

	// Wire all dependencies
	app, err := wire.Wiring(wire.Dependencies{
		Repo:  repository.NewRepository(db, logger),
		Redis: cache,
	}, config, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	if len(os.Args) > 1 && os.Args[1] == "createsuperuser" {
		return cmd.CreateSuperuser(context.Background(), app.Service.Auth, os.Args[2:], logger)
	}

	return cmd.APIServer(app.Router, config.App.Port, config.App.ShutdownTimeout, logger)
}
