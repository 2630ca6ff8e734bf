// Package dto defines data transfer objects for the Twelve Data API responses.
package dto

// DailyClosesResponse represents the JSON response from the Twelve Data
// time_series endpoint, trimmed to the fields the ingest job consumes.
type DailyClosesResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Meta    struct {
		Symbol   string `json:"symbol"`
		Currency string `json:"currency"`
	} `json:"meta"`
	Values []struct {
		Datetime string `json:"datetime"`
		Close    string `json:"close"`
	} `json:"values"`
}
