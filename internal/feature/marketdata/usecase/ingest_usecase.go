package usecase

import (
	"context"
	"log/slog"

	"fundops_backend/internal/feature/marketdata/domain/entity"
	"fundops_backend/internal/shared/indexcode"
	"fundops_backend/internal/shared/ratelimiter"
)

const (
	// ingestOutputSize is how many recent closes to pull per index code.
	ingestOutputSize = 30

	// feedActor stamps rows written by the ingest job.
	feedActor = "index-feed"
)

// IndexFeedRepository pulls closing index levels from the external feed.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type IndexFeedRepository interface {
	GetDailyCloses(ctx context.Context, indexCode string, outputsize int) ([]entity.IndexPrice, error)
}

// IngestUsecase pulls index levels from the external feed and persists them.
type IngestUsecase struct {
	feed        IndexFeedRepository
	prices      IndexPriceRepository
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewIngestUsecase creates a new IngestUsecase.
func NewIngestUsecase(feed IndexFeedRepository, prices IndexPriceRepository, rateLimiter ratelimiter.RateLimiterInterface) *IngestUsecase {
	return &IngestUsecase{feed: feed, prices: prices, rateLimiter: rateLimiter}
}

// ingestOne pulls the recent closes for one index code and upserts them on
// (IndexCode, PriceDate). Rows that fail validation are skipped and logged;
// a feed occasionally delivers zero or placeholder levels.
func (iu *IngestUsecase) ingestOne(ctx context.Context, indexCode string, outputsize int) error {
	closes, err := iu.feed.GetDailyCloses(ctx, indexCode, outputsize)
	if err != nil {
		return err
	}

	valid := make([]entity.IndexPrice, 0, len(closes))
	for i := range closes {
		closes[i].IndexCode = indexCode
		closes[i].Source = entity.SourceFeed
		closes[i].CreatedBy = feedActor
		closes[i].UpdatedBy = feedActor
		if err := validatePrice(&closes[i]); err != nil {
			slog.Warn("skipping invalid feed row",
				"index_code", indexCode,
				"price_date", closes[i].PriceDate,
				"error", err,
			)
			continue
		}
		valid = append(valid, closes[i])
	}
	return iu.prices.UpsertBatch(ctx, valid)
}

// IngestAll pulls and persists the recent closes for every configured index
// code, pacing requests against the provider quota. A failure on one code is
// logged and the run continues with the next.
func (iu *IngestUsecase) IngestAll(ctx context.Context, indexCodes []string) error {
	for _, code := range indexCodes {
		code = indexcode.Normalize(code)
		iu.rateLimiter.WaitIfNeeded()
		if err := iu.ingestOne(ctx, code, ingestOutputSize); err != nil {
			slog.Error("failed to ingest index prices", "index_code", code, "error", err)
			continue
		}
		slog.Info("ingested index prices", "index_code", code)
	}
	return nil
}
