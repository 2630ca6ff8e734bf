package dto

import "github.com/shopspring/decimal"

// UpdateIndexPriceReq is the request body for PUT /index-prices/:id.
// IndexCode and PriceDate may restate the stored values but cannot change them.
type UpdateIndexPriceReq struct {
	IndexCode string          `json:"index_code" binding:"omitempty,max=12"`
	PriceDate string          `json:"price_date" binding:"omitempty"`
	Price     decimal.Decimal `json:"price" binding:"required"`
	Currency  string          `json:"currency" binding:"required,iso4217"`
}
