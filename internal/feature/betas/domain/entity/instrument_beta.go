// Package entity defines the domain entities for the betas feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstrumentBeta is the sensitivity of an instrument to a benchmark index as
// of an effective date. (ISIN, IndexCode, EffectiveDate) is unique; restating
// the key with a new value replaces the stored beta.
type InstrumentBeta struct {
	ID            uint            // Auto-increment primary key
	ISIN          string          // Instrument identifier
	IndexCode     string          // Benchmark index code, e.g. SPX
	Beta          decimal.Decimal // Regression beta against the index
	EffectiveDate time.Time       // Business date the beta takes effect, midnight UTC
	CreatedBy     string          // Email of the principal who created the record
	UpdatedBy     string          // Email of the principal who last changed the record
	CreatedAt     time.Time       // Creation timestamp
	UpdatedAt     time.Time       // Last update timestamp
}
