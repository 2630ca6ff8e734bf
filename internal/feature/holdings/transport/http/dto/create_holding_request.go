// Package dto defines the HTTP request and response shapes for the holdings feature.
package dto

import "github.com/shopspring/decimal"

// CreateHoldingReq is the request body for POST /holdings. The quantity,
// market value, and date rules are enforced by the usecase; binding covers
// shape only.
type CreateHoldingReq struct {
	PortfolioCode string          `json:"portfolio_code" binding:"required,min=2,max=16"`
	ISIN          string          `json:"isin" binding:"required,isin"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	MarketValue   decimal.Decimal `json:"market_value" binding:"required"`
	Currency      string          `json:"currency" binding:"required,iso4217"`
	EffectiveDate string          `json:"effective_date" binding:"required"`
	Note          string          `json:"note" binding:"omitempty,max=500"`
}

// UpdateHoldingReq is the request body for PUT /holdings/:id. The
// (portfolio_code, isin, effective_date) key is immutable.
type UpdateHoldingReq struct {
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	MarketValue decimal.Decimal `json:"market_value" binding:"required"`
	Currency    string          `json:"currency" binding:"required,iso4217"`
	Note        string          `json:"note" binding:"omitempty,max=500"`
}
