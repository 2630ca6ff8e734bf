// Package entity defines the domain entities for the instruments feature.
package entity

import "time"

// Type classifies an instrument in the security master.
type Type string

const (
	TypeEquity Type = "equity"
	TypeETF    Type = "etf"
	TypeBond   Type = "bond"
	TypeIndex  Type = "index"
	TypeFund   Type = "fund"
)

var knownTypes = map[Type]struct{}{
	TypeEquity: {},
	TypeETF:    {},
	TypeBond:   {},
	TypeIndex:  {},
	TypeFund:   {},
}

// ParseType returns the Type for s and whether s names a known type.
func ParseType(s string) (Type, bool) {
	t := Type(s)
	_, ok := knownTypes[t]
	return t, ok
}

// IsValid reports whether t is one of the known instrument types.
func (t Type) IsValid() bool {
	_, ok := knownTypes[t]
	return ok
}

// String returns the wire form of the type.
func (t Type) String() string {
	return string(t)
}

// Instrument is a security master record keyed by ISIN.
type Instrument struct {
	ID        uint      // Auto-increment primary key
	ISIN      string    // International Securities Identification Number (unique)
	Name      string    // Full instrument name
	Symbol    string    // Ticker symbol, optional
	Type      Type      // Classification (equity, etf, bond, index, fund)
	Currency  string    // ISO 4217 trading currency
	Exchange  string    // Listing exchange code, optional
	Active    bool      // Inactive instruments are kept for history but excluded from maintenance
	CreatedBy string    // Email of the principal who created the record
	UpdatedBy string    // Email of the principal who last changed the record
	CreatedAt time.Time // Creation timestamp
	UpdatedAt time.Time // Last update timestamp
}
