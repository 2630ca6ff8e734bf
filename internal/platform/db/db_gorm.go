// Package db opens the application's PostgreSQL connection and runs
// schema migrations.
package db

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	auditadapters "fundops_backend/internal/feature/audit/adapters"
	authadapters "fundops_backend/internal/feature/auth/adapters"
	authentity "fundops_backend/internal/feature/auth/domain/entity"
	betaadapters "fundops_backend/internal/feature/betas/adapters"
	holdingadapters "fundops_backend/internal/feature/holdings/adapters"
	instrumentadapters "fundops_backend/internal/feature/instruments/adapters"
	marketdataadapters "fundops_backend/internal/feature/marketdata/adapters"
	reportadapters "fundops_backend/internal/feature/reports/adapters"
)

// connectRetryInterval is the pause between connection attempts.
const connectRetryInterval = 3 * time.Second

// Config holds the PostgreSQL connection settings.
type Config struct {
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// InstanceName selects a Cloud SQL unix socket connection when set.
	InstanceName string `env:"INSTANCE_CONNECTION_NAME"`

	// RunMigrations runs AutoMigrate on startup when true.
	RunMigrations bool `env:"RUN_MIGRATIONS"`
}

// LoadConfigFromEnv reads the database configuration from environment variables.
func LoadConfigFromEnv() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		// String fields cannot fail to parse; a bad RUN_MIGRATIONS value can.
		slog.Warn("failed to parse database environment", "error", err)
	}
	return cfg
}

// BuildDSN assembles a PostgreSQL DSN from the configuration.
// A Cloud SQL instance name takes precedence over host/port.
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.InstanceName, cfg.User, cfg.Password, cfg.Name)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// OpenFunc opens a gorm connection for the given DSN.
type OpenFunc func(dsn string) (*gorm.DB, error)

// DefaultOpener opens a PostgreSQL connection with driver error translation
// enabled, so unique violations surface as gorm.ErrDuplicatedKey.
func DefaultOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(gpostgres.Open(dsn), &gorm.Config{TranslateError: true})
}

// ConnectWithRetry attempts to open the database until it succeeds or the
// timeout elapses. The database container may come up after the application.
func ConnectWithRetry(dsn string, timeout time.Duration, opener OpenFunc) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("database connect failed after %s: %w", timeout, err)
		}
		slog.Warn("database connect failed, retrying", "error", err)
		time.Sleep(connectRetryInterval)
	}
}

// OpenDB connects to PostgreSQL using environment configuration and runs
// migrations when RUN_MIGRATIONS is enabled.
func OpenDB() (*gorm.DB, error) {
	cfg := LoadConfigFromEnv()

	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, DefaultOpener)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations || os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		slog.Info("database migrations applied")
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for every persisted model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&authentity.User{},
		&authadapters.SessionModel{},
		&auditadapters.AuditRecordModel{},
		&instrumentadapters.InstrumentModel{},
		&marketdataadapters.IndexPriceModel{},
		&betaadapters.InstrumentBetaModel{},
		&reportadapters.ReportBatchModel{},
		&holdingadapters.CustomHoldingModel{},
	)
}
