// Package entity defines the domain entities for the marketdata feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source tells where an index price came from.
type Source string

const (
	// SourceManual marks prices entered through the maintenance screens.
	SourceManual Source = "manual"

	// SourceFeed marks prices pulled from the external market-data feed.
	SourceFeed Source = "feed"
)

// String returns the wire form of the source.
func (s Source) String() string {
	return string(s)
}

// IndexPrice is the closing level of a market index on one business date.
// (IndexCode, PriceDate) is unique.
type IndexPrice struct {
	ID        uint            // Auto-increment primary key
	IndexCode string          // Index identifier, e.g. SPX or NDX
	PriceDate time.Time       // Business date, midnight UTC
	Price     decimal.Decimal // Closing level, strictly positive
	Currency  string          // ISO 4217 quote currency
	Source    Source          // manual maintenance or the external feed
	CreatedBy string          // Email of the principal who created the record
	UpdatedBy string          // Email of the principal who last changed the record
	CreatedAt time.Time       // Creation timestamp
	UpdatedAt time.Time       // Last update timestamp
}
