package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/almafantasy/engine/internal/fantasy"
	"github.com/almafantasy/engine/internal/nflverse"
	"github.com/almafantasy/engine/internal/services"
	"github.com/almafantasy/engine/pkg/config"
	"github.com/almafantasy/engine/pkg/database"
	"github.com/almafantasy/engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger("", cfg.IsDevelopment())

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	store := services.NewSeasonStore(db.DB, log)
	if err := store.Migrate(); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	requestsPerSecond := 1.0
	if cfg.AssetRateLimit > 0 {
		requestsPerSecond = 1.0 / cfg.AssetRateLimit.Seconds()
	}
	assets := nflverse.NewClient(cfg.AssetBaseURL, cfg.AssetTimeout, requestsPerSecond, log)

	aggregator := services.NewWeekAggregator(assets, store, cacheService, log, services.AggregatorOptions{
		IncludeKicker: cfg.IncludeKickers,
		Defense:       fantasy.DefenseMode(cfg.DefenseMode),
		CacheTTL:      cfg.AggregateCacheTTL,
	})

	refresher := services.NewRefresher(aggregator, cfg.NFLSeason, cfg.RefreshInterval, log)
	if err := refresher.Start(); err != nil {
		logrus.Fatalf("Failed to start refresher: %v", err)
	}
	defer refresher.Stop()

	// Wait for interrupt signal to shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down refresher...")
}
