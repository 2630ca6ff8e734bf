// Package entity defines the domain entities for the holdings feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomHolding is a manually maintained position row. Positions that reach
// us through upstream custodian feeds never pass through this table; it only
// carries corrections and internal books that operations key in by hand.
// Rows are unique per (PortfolioCode, ISIN, EffectiveDate).
type CustomHolding struct {
	ID            uint            // Auto-increment primary key
	PortfolioCode string          // Uppercase internal portfolio identifier
	ISIN          string          // Instrument identifier; must exist in the security master
	Quantity      decimal.Decimal // Position size, never zero; negative means short
	MarketValue   decimal.Decimal // Valuation in Currency, never negative
	Currency      string          // ISO 4217 valuation currency
	EffectiveDate time.Time       // Position date (UTC midnight), never in the future
	Note          string          // Free-form annotation, at most 500 characters
	CreatedBy     string          // Email of the principal who created the row
	UpdatedBy     string          // Email of the principal who last changed the row
	CreatedAt     time.Time       // Creation timestamp
	UpdatedAt     time.Time       // Last update timestamp
}
