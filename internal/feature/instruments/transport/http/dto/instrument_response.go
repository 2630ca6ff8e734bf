package dto

// InstrumentRes is the JSON representation of an instrument.
type InstrumentRes struct {
	ID        uint   `json:"id"`
	ISIN      string `json:"isin"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol,omitempty"`
	Type      string `json:"type"`
	Currency  string `json:"currency"`
	Exchange  string `json:"exchange,omitempty"`
	Active    bool   `json:"active"`
	CreatedBy string `json:"created_by,omitempty"`
	UpdatedBy string `json:"updated_by,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
