// Package twelvedata provides a client for the Twelve Data market-data API,
// which serves the daily index closes the ingest job pulls.
package twelvedata

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings for the Twelve Data API client.
type Config struct {
	APIKey  string        `env:"INDEX_FEED_API_KEY"`
	BaseURL string        `env:"INDEX_FEED_BASE_URL" envDefault:"https://api.twelvedata.com"`
	Timeout time.Duration `env:"INDEX_FEED_TIMEOUT" envDefault:"10s"`
}

// LoadConfigFromEnv reads the feed configuration from environment variables.
func LoadConfigFromEnv() (Config, error) {
	return env.ParseAs[Config]()
}
