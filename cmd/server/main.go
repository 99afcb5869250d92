package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sentinelai/sentinel-core/internal/api"
	"github.com/sentinelai/sentinel-core/internal/api/websocket"
	"github.com/sentinelai/sentinel-core/internal/config"
	"github.com/sentinelai/sentinel-core/internal/services"
	"github.com/sentinelai/sentinel-core/internal/storage/postgres"
	"github.com/sentinelai/sentinel-core/pkg/cache"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logger.New(cfg.LogLevel)
	logger.Info("Starting sentinel-core", "version", api.Version, "environment", cfg.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to Postgres", "error", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	stores := postgres.NewStores(db)

	var cacheClient cache.Cache
	if cfg.Cache.Addr != "" {
		cacheClient, err = cache.NewRedis(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, time.Duration(cfg.Cache.TTL)*time.Second)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		logger.Info("Redis cache initialized", "addr", cfg.Cache.Addr)
	} else {
		cacheClient = cache.NewMemory()
		logger.Warn("No cache address configured, using in-memory cache")
	}

	if cfg.Seed.Enabled {
		if err := services.NewSeeder(stores, logger).Run(ctx); err != nil {
			logger.Fatal("Failed to seed database", "error", err)
		}
	}

	hub := websocket.NewHub(time.Duration(cfg.WebSocket.WriteTimeout)*time.Second, logger)

	apiServer := api.NewServer(cfg, logger, cacheClient, stores, hub)
	if err := apiServer.Start(ctx); err != nil {
		logger.Fatal("Server failed to start", "error", err)
	}

	logger.Info("sentinel-core shutdown complete")
}
