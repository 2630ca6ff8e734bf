package di

import (
	"fundops_backend/internal/platform/externalapi/twelvedata"
	infrahttp "fundops_backend/internal/platform/http"
)

// NewFeed creates a fully configured TwelveDataFeed with its HTTP client.
func NewFeed() (*twelvedata.TwelveDataFeed, error) {
	cfg, err := twelvedata.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return twelvedata.NewTwelveDataFeed(cfg, httpClient), nil
}
