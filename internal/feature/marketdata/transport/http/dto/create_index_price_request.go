// Package dto defines the HTTP request and response shapes for the marketdata feature.
package dto

import "github.com/shopspring/decimal"

// CreateIndexPriceReq is the request body for POST /index-prices.
// The index code shape and the future-date rule are enforced by the usecase.
type CreateIndexPriceReq struct {
	IndexCode string          `json:"index_code" binding:"required,max=12"`
	PriceDate string          `json:"price_date" binding:"required"`
	Price     decimal.Decimal `json:"price" binding:"required"`
	Currency  string          `json:"currency" binding:"required,iso4217"`
}
