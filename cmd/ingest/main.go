package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"fundops_backend/internal/app/di"
	marketdataadapters "fundops_backend/internal/feature/marketdata/adapters"
	marketdatausecase "fundops_backend/internal/feature/marketdata/usecase"
	"fundops_backend/internal/platform/cache"
	"fundops_backend/internal/platform/config"
	infradb "fundops_backend/internal/platform/db"
	infraredis "fundops_backend/internal/platform/redis"
	"fundops_backend/internal/shared/ratelimiter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := infradb.OpenDB()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// Redis is optional; with it, upserts drop the server's cached listings
	// for the refreshed codes instead of waiting for the TTL.
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		slog.Warn("redis unavailable, cached listings expire on TTL only")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}()
	}

	feed, err := di.NewFeed()
	if err != nil {
		slog.Error("failed to configure market-data feed", "error", err)
		os.Exit(1)
	}

	priceRepo := marketdataadapters.NewIndexPricePostgres(db)
	ttl := cache.TimeUntilNextRefresh(cfg.RefreshHourUTC)
	cachedPriceRepo := cache.NewCachingIndexPriceRepository(rdb, ttl, priceRepo, "index_prices")

	limiter := ratelimiter.NewRateLimiter(cfg.FeedCallsPerMinute, time.Minute)
	uc := marketdatausecase.NewIngestUsecase(feed, cachedPriceRepo, limiter)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := uc.IngestAll(ctx, cfg.IndexCodes); err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
	slog.Info("ingest ok", "index_codes", cfg.IndexCodes)
}
