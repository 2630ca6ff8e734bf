package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"fundops_backend/internal/app/di"
	"fundops_backend/internal/app/router"
	auditadapters "fundops_backend/internal/feature/audit/adapters"
	audithandler "fundops_backend/internal/feature/audit/transport/handler"
	auditusecase "fundops_backend/internal/feature/audit/usecase"
	authadapters "fundops_backend/internal/feature/auth/adapters"
	authhandler "fundops_backend/internal/feature/auth/transport/handler"
	authusecase "fundops_backend/internal/feature/auth/usecase"
	betaadapters "fundops_backend/internal/feature/betas/adapters"
	betahandler "fundops_backend/internal/feature/betas/transport/handler"
	betausecase "fundops_backend/internal/feature/betas/usecase"
	holdingadapters "fundops_backend/internal/feature/holdings/adapters"
	holdinghandler "fundops_backend/internal/feature/holdings/transport/handler"
	holdingusecase "fundops_backend/internal/feature/holdings/usecase"
	instrumentadapters "fundops_backend/internal/feature/instruments/adapters"
	instrumenthandler "fundops_backend/internal/feature/instruments/transport/handler"
	instrumentusecase "fundops_backend/internal/feature/instruments/usecase"
	marketdataadapters "fundops_backend/internal/feature/marketdata/adapters"
	marketdatahandler "fundops_backend/internal/feature/marketdata/transport/handler"
	marketdatausecase "fundops_backend/internal/feature/marketdata/usecase"
	reportadapters "fundops_backend/internal/feature/reports/adapters"
	reporthandler "fundops_backend/internal/feature/reports/transport/handler"
	reportusecase "fundops_backend/internal/feature/reports/usecase"
	"fundops_backend/internal/platform/cache"
	"fundops_backend/internal/platform/config"
	infradb "fundops_backend/internal/platform/db"
	jwtmw "fundops_backend/internal/platform/jwt"
	infraredis "fundops_backend/internal/platform/redis"
)

// sweepTimeout bounds one report-batch processor run.
const sweepTimeout = 5 * time.Minute

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

	// Redis is optional: price caching and Redis-backed sessions degrade
	// gracefully without it.
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		slog.Warn("redis unavailable, running without cache")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}()
	}

	// Repositories
	userRepo := authadapters.NewUserPostgres(db)
	sessionRepo := di.NewSessionRepository(rdb, db)
	auditRepo := auditadapters.NewAuditPostgres(db)
	priceRepo := marketdataadapters.NewIndexPricePostgres(db)
	betaRepo := betaadapters.NewBetaPostgres(db)
	instrumentRepo := instrumentadapters.NewInstrumentPostgres(db)
	holdingRepo := holdingadapters.NewHoldingPostgres(db)
	reportRepo := reportadapters.NewReportPostgres(db)

	fileStore, err := reportadapters.NewDiskStore(cfg.UploadDir)
	if err != nil {
		slog.Error("failed to prepare upload directory", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	// Cache index price listings until the next daily refresh
	ttl := cache.TimeUntilNextRefresh(cfg.RefreshHourUTC)
	cachedPriceRepo := cache.NewCachingIndexPriceRepository(rdb, ttl, priceRepo, "index_prices")

	// Usecases
	tokens := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), cfg.JWTExpiration)
	auditUC := auditusecase.NewAuditUsecase(auditRepo)
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, tokens, cfg.SessionTTL)
	priceUC := marketdatausecase.NewIndexPriceUsecase(cachedPriceRepo, auditUC)
	betaUC := betausecase.NewBetaUsecase(betaRepo, auditUC)
	instrumentUC := instrumentusecase.NewInstrumentUsecase(instrumentRepo, holdingRepo, auditUC)
	holdingUC := holdingusecase.NewHoldingUsecase(holdingRepo, instrumentRepo, auditUC)
	reportUC := reportusecase.NewReportUsecase(reportRepo, fileStore, auditUC)

	// Handlers
	authH := authhandler.NewAuthHandler(authUC)
	auditH := audithandler.NewAuditHandler(auditUC)
	priceH := marketdatahandler.NewIndexPriceHandler(priceUC)
	betaH := betahandler.NewBetaHandler(betaUC)
	instrumentH := instrumenthandler.NewInstrumentHandler(instrumentUC)
	holdingH := holdinghandler.NewHoldingHandler(holdingUC, cfg.MaxUploadBytes)
	reportH := reporthandler.NewReportHandler(reportUC, cfg.MaxUploadBytes)

	// Report-batch processor runs inside the server process on a cron schedule
	processor := reportusecase.NewBatchProcessor(reportRepo, fileStore, cfg.ClaimLimit, cfg.StaleAfter)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ProcessorSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if n, err := processor.ProcessDue(ctx); err != nil {
			slog.Error("report batch sweep failed", "error", err)
		} else if n > 0 {
			slog.Info("report batch sweep finished", "processed", n)
		}
	}); err != nil {
		slog.Error("invalid processor schedule", "cron", cfg.ProcessorSchedule, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := router.NewRouter(
		router.Options{AllowedOrigins: cfg.CORSAllowedOrigins},
		authH, reportH, priceH, betaH, instrumentH, holdingH, auditH,
	)

	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		slog.Warn("JWT_SECRET is not set; set a strong secret in production")
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
