// Package dto defines the HTTP request and response shapes for the betas feature.
package dto

import "github.com/shopspring/decimal"

// BetaRow is one row of a bulk beta upsert. The beta range and future-date
// rules are enforced by the usecase so the error can name the row.
type BetaRow struct {
	ISIN          string          `json:"isin" binding:"required,isin"`
	IndexCode     string          `json:"index_code" binding:"required,max=12"`
	Beta          decimal.Decimal `json:"beta" binding:"required"`
	EffectiveDate string          `json:"effective_date" binding:"required"`
}

// UpsertBetasReq is the request body for PUT /betas.
type UpsertBetasReq struct {
	Rows []BetaRow `json:"rows" binding:"required,min=1,dive"`
}
