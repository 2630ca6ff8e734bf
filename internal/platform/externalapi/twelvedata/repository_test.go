package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewTwelveDataFeed(t *testing.T) {
	t.Parallel()

	cfg := Config{
		APIKey:  "test-key",
		BaseURL: "https://api.test.com",
		Timeout: 10 * time.Second,
	}
	client := &http.Client{}

	feed := NewTwelveDataFeed(cfg, client)

	if feed == nil {
		t.Fatal("expected non-nil feed")
	}
	if feed.cfg.APIKey != cfg.APIKey {
		t.Errorf("expected API key %q, got %q", cfg.APIKey, feed.cfg.APIKey)
	}
}

func TestTwelveDataFeed_GetDailyCloses_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request parameters
		if r.URL.Query().Get("symbol") != "SPX" {
			t.Errorf("expected symbol SPX, got %s", r.URL.Query().Get("symbol"))
		}
		if r.URL.Query().Get("interval") != "1day" {
			t.Errorf("expected interval 1day, got %s", r.URL.Query().Get("interval"))
		}
		if r.URL.Query().Get("outputsize") != "30" {
			t.Errorf("expected outputsize 30, got %s", r.URL.Query().Get("outputsize"))
		}
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Errorf("expected apikey test-key, got %s", r.URL.Query().Get("apikey"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"meta": {"symbol": "SPX", "currency": "USD"},
			"values": [
				{"datetime": "2026-08-21", "close": "5432.10"},
				{"datetime": "2026-08-20 16:00:00", "close": "5401.25"}
			]
		}`))
	}))
	defer server.Close()

	cfg := Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}
	feed := NewTwelveDataFeed(cfg, server.Client())

	prices, err := feed.GetDailyCloses(context.Background(), "SPX", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(prices) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(prices))
	}

	// Check the date-only bar
	if !prices[0].Price.Equal(decimal.RequireFromString("5432.10")) {
		t.Errorf("expected close 5432.10, got %s", prices[0].Price)
	}
	if !prices[0].PriceDate.Equal(time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected business date 2026-08-21, got %v", prices[0].PriceDate)
	}
	if prices[0].Currency != "USD" {
		t.Errorf("expected currency USD, got %s", prices[0].Currency)
	}

	// An intraday-shaped timestamp truncates to the business date
	if !prices[1].PriceDate.Equal(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected business date 2026-08-20, got %v", prices[1].PriceDate)
	}
}

func TestTwelveDataFeed_GetDailyCloses_DefaultCurrency(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"values": [{"datetime": "2026-08-21", "close": "5432.10"}]
		}`))
	}))
	defer server.Close()

	cfg := Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}
	feed := NewTwelveDataFeed(cfg, server.Client())

	prices, err := feed.GetDailyCloses(context.Background(), "SPX", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 1 {
		t.Fatalf("expected 1 price, got %d", len(prices))
	}
	if prices[0].Currency != "USD" {
		t.Errorf("expected default currency USD, got %s", prices[0].Currency)
	}
}

func TestTwelveDataFeed_GetDailyCloses_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"bad request", http.StatusBadRequest},
		{"unauthorized", http.StatusUnauthorized},
		{"too many requests", http.StatusTooManyRequests},
		{"internal server error", http.StatusInternalServerError},
		{"service unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			cfg := Config{
				APIKey:  "test-key",
				BaseURL: server.URL,
			}
			feed := NewTwelveDataFeed(cfg, server.Client())

			_, err := feed.GetDailyCloses(context.Background(), "SPX", 30)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), "twelvedata http") {
				t.Errorf("expected HTTP error message, got %v", err)
			}
		})
	}
}

func TestTwelveDataFeed_GetDailyCloses_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"status": "error",
			"message": "Invalid API key"
		}`))
	}))
	defer server.Close()

	cfg := Config{
		APIKey:  "invalid-key",
		BaseURL: server.URL,
	}
	feed := NewTwelveDataFeed(cfg, server.Client())

	_, err := feed.GetDailyCloses(context.Background(), "SPX", 30)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Invalid API key") {
		t.Errorf("expected API error message, got %v", err)
	}
}

func TestTwelveDataFeed_GetDailyCloses_InvalidJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{invalid json`))
	}))
	defer server.Close()

	cfg := Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}
	feed := NewTwelveDataFeed(cfg, server.Client())

	_, err := feed.GetDailyCloses(context.Background(), "SPX", 30)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestTwelveDataFeed_GetDailyCloses_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		errField string
	}{
		{
			name: "invalid datetime",
			response: `{
				"status": "ok",
				"values": [{"datetime": "invalid-date", "close": "5432.10"}]
			}`,
			errField: "parse datetime",
		},
		{
			name: "invalid close",
			response: `{
				"status": "ok",
				"values": [{"datetime": "2026-08-21", "close": "abc"}]
			}`,
			errField: "parse close",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			cfg := Config{
				APIKey:  "test-key",
				BaseURL: server.URL,
			}
			feed := NewTwelveDataFeed(cfg, server.Client())

			_, err := feed.GetDailyCloses(context.Background(), "SPX", 30)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errField) {
				t.Errorf("expected error containing %q, got %v", tt.errField, err)
			}
		})
	}
}

func TestTwelveDataFeed_GetDailyCloses_EmptyValues(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"values": []
		}`))
	}))
	defer server.Close()

	cfg := Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}
	feed := NewTwelveDataFeed(cfg, server.Client())

	prices, err := feed.GetDailyCloses(context.Background(), "SPX", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 0 {
		t.Errorf("expected 0 prices, got %d", len(prices))
	}
}

func TestTwelveDataFeed_GetDailyCloses_ContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}
	feed := NewTwelveDataFeed(cfg, server.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := feed.GetDailyCloses(ctx, "SPX", 30)
	if err == nil {
		t.Fatal("expected error due to context cancellation, got nil")
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("INDEX_FEED_API_KEY", "test-key")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIKey != "test-key" {
		t.Errorf("expected API key test-key, got %q", cfg.APIKey)
	}
	if cfg.BaseURL != "https://api.twelvedata.com" {
		t.Errorf("expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
	}
}
