package dto

// InstrumentBetaRes is the API representation of one instrument beta.
// Beta is rendered as a decimal string and effective_date as YYYY-MM-DD.
type InstrumentBetaRes struct {
	ID            uint   `json:"id"`
	ISIN          string `json:"isin"`
	IndexCode     string `json:"index_code"`
	Beta          string `json:"beta"`
	EffectiveDate string `json:"effective_date"`
	CreatedBy     string `json:"created_by,omitempty"`
	UpdatedBy     string `json:"updated_by,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}
