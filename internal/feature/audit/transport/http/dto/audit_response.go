// Package dto defines data transfer objects for the audit feature's HTTP transport layer.
package dto

// AuditRecordRes is one audit trail entry as returned to clients.
type AuditRecordRes struct {
	ID         uint   `json:"id"`
	Actor      string `json:"actor"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Detail     string `json:"detail,omitempty"`
	CreatedAt  string `json:"created_at"`
}
