package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"fundops_backend/internal/feature/marketdata/domain/entity"
	"fundops_backend/internal/feature/marketdata/usecase"
	"fundops_backend/internal/platform/externalapi/twelvedata/dto"
)

// defaultCurrency is assumed when the feed omits the quote currency.
const defaultCurrency = "USD"

// TwelveDataFeed is an IndexFeedRepository implementation that pulls daily
// index closes from the Twelve Data API.
type TwelveDataFeed struct {
	cfg    Config
	client *http.Client
}

// Compile-time check that TwelveDataFeed implements IndexFeedRepository.
var _ usecase.IndexFeedRepository = (*TwelveDataFeed)(nil)

// NewTwelveDataFeed creates a new TwelveDataFeed with the given configuration
// and HTTP client.
func NewTwelveDataFeed(cfg Config, client *http.Client) *TwelveDataFeed {
	return &TwelveDataFeed{cfg: cfg, client: client}
}

// GetDailyCloses fetches the most recent daily closes for one index code and
// returns them as index prices carrying the business date, the closing level
// and the quote currency. The caller stamps provenance.
func (t *TwelveDataFeed) GetDailyCloses(ctx context.Context, indexCode string, outputsize int) ([]entity.IndexPrice, error) {
	q := url.Values{}
	q.Set("symbol", indexCode)
	q.Set("interval", "1day")
	q.Set("outputsize", strconv.Itoa(outputsize))
	q.Set("apikey", t.cfg.APIKey)

	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body dto.DailyClosesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	currency := body.Meta.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	prices := make([]entity.IndexPrice, 0, len(body.Values))
	for _, v := range body.Values {
		// Daily bars usually carry a bare date; intraday-shaped timestamps
		// appear on some plans and are truncated to the business date.
		tm, err := time.Parse("2006-01-02", v.Datetime)
		if err != nil {
			tm, err = time.Parse("2006-01-02 15:04:05", v.Datetime)
			if err != nil {
				return nil, fmt.Errorf("parse datetime %q: %w", v.Datetime, err)
			}
		}
		businessDate := time.Date(tm.Year(), tm.Month(), tm.Day(), 0, 0, 0, 0, time.UTC)

		closePrice, err := decimal.NewFromString(v.Close)
		if err != nil {
			return nil, fmt.Errorf("parse close %q: %w", v.Close, err)
		}

		prices = append(prices, entity.IndexPrice{
			PriceDate: businessDate,
			Price:     closePrice,
			Currency:  currency,
		})
	}
	return prices, nil
}
