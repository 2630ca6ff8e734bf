// Package dto defines the HTTP response shapes for the reports feature.
// Uploads arrive as multipart form data, so there is no JSON request body.
package dto

// ReportBatchRes is the API representation of one report batch.
// business_date is YYYY-MM-DD; the timestamps are RFC 3339.
type ReportBatchRes struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	Kind         string `json:"kind"`
	BusinessDate string `json:"business_date"`
	Status       string `json:"status"`
	RowCount     int    `json:"row_count"`
	ErrorCount   int    `json:"error_count"`
	Error        string `json:"error,omitempty"`
	SizeBytes    int64  `json:"size_bytes"`
	UploadedBy   string `json:"uploaded_by,omitempty"`
	ProcessedAt  string `json:"processed_at,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
