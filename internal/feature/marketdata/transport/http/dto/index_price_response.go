package dto

// IndexPriceRes is the API representation of one index price observation.
// Price is rendered as a decimal string and price_date as YYYY-MM-DD.
type IndexPriceRes struct {
	ID        uint   `json:"id"`
	IndexCode string `json:"index_code"`
	PriceDate string `json:"price_date"`
	Price     string `json:"price"`
	Currency  string `json:"currency"`
	Source    string `json:"source"`
	CreatedBy string `json:"created_by,omitempty"`
	UpdatedBy string `json:"updated_by,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
