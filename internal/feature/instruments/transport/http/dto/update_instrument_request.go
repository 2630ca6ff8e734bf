package dto

// UpdateInstrumentReq is the request body for PUT /instruments/:isin.
// The ISIN itself is immutable and comes from the URL.
type UpdateInstrumentReq struct {
	Name     string `json:"name" binding:"required,max=255"`
	Symbol   string `json:"symbol" binding:"omitempty,max=32"`
	Type     string `json:"type" binding:"required,oneof=equity etf bond index fund"`
	Currency string `json:"currency" binding:"required,iso4217"`
	Exchange string `json:"exchange" binding:"omitempty,max=32"`
	Active   *bool  `json:"active" binding:"required"`
}
