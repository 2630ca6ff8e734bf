package dto

// CustomHoldingRes is the API representation of one custom holding.
// Quantity and market value are rendered as decimal strings and
// effective_date as YYYY-MM-DD.
type CustomHoldingRes struct {
	ID            uint   `json:"id"`
	PortfolioCode string `json:"portfolio_code"`
	ISIN          string `json:"isin"`
	Quantity      string `json:"quantity"`
	MarketValue   string `json:"market_value"`
	Currency      string `json:"currency"`
	EffectiveDate string `json:"effective_date"`
	Note          string `json:"note,omitempty"`
	CreatedBy     string `json:"created_by,omitempty"`
	UpdatedBy     string `json:"updated_by,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}
