// Package config loads the application-level settings shared by the server
// and ingest binaries. Connection settings live with their packages (db,
// redis, twelvedata); this covers everything above the connections.
package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application settings.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"8080"`

	// CORSAllowedOrigins lists the browser origins admitted by CORS.
	// Empty admits every origin (development).
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// JWTExpiration is the access-token lifetime.
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"15m"`

	// SessionTTL is the refresh-session lifetime.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// UploadDir is where uploaded report files are stored.
	UploadDir string `env:"UPLOAD_DIR" envDefault:"./uploads"`

	// MaxUploadBytes caps multipart upload size. Defaults to 10 MiB.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// ProcessorSchedule is the cron expression for the report-batch sweep.
	ProcessorSchedule string `env:"REPORT_PROCESSOR_CRON" envDefault:"* * * * *"`

	// ClaimLimit is how many pending batches one sweep may claim.
	ClaimLimit int `env:"REPORT_CLAIM_LIMIT" envDefault:"10"`

	// StaleAfter is how long a batch may sit in processing before a sweep
	// resets it to pending (crash recovery).
	StaleAfter time.Duration `env:"REPORT_STALE_AFTER" envDefault:"30m"`

	// IndexCodes lists the market indexes the ingest job pulls.
	IndexCodes []string `env:"INDEX_CODES" envDefault:"SPX,NDX,DJI" envSeparator:","`

	// FeedCallsPerMinute is the external feed's per-minute request quota.
	FeedCallsPerMinute int `env:"INDEX_FEED_CALLS_PER_MINUTE" envDefault:"8"`

	// RefreshHourUTC is the UTC hour the daily market-data refresh runs,
	// which also bounds the price cache TTL.
	RefreshHourUTC int `env:"MARKET_REFRESH_HOUR_UTC" envDefault:"6"`
}

// Load reads a .env file when present, then parses the configuration from
// environment variables. It must run before any package parses its own
// connection settings.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; using process environment")
	}
	return env.ParseAs[Config]()
}
