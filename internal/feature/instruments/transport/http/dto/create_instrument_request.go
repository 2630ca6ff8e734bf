// Package dto defines the HTTP request and response shapes for the instruments feature.
package dto

// CreateInstrumentReq is the request body for POST /instruments.
type CreateInstrumentReq struct {
	ISIN     string `json:"isin" binding:"required,isin"`
	Name     string `json:"name" binding:"required,max=255"`
	Symbol   string `json:"symbol" binding:"omitempty,max=32"`
	Type     string `json:"type" binding:"required,oneof=equity etf bond index fund"`
	Currency string `json:"currency" binding:"required,iso4217"`
	Exchange string `json:"exchange" binding:"omitempty,max=32"`

	// Active defaults to true when omitted.
	Active *bool `json:"active"`
}
