// Package entity defines the domain model for the audit feature.
package entity

import "time"

// Well-known audit actions. Features are free to record others.
const (
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionUpload    = "upload"
	ActionImport    = "import"
	ActionUpsert    = "upsert"
	ActionReprocess = "reprocess"
)

// AuditRecord captures a single mutation performed through the API.
// Records are append-only; nothing in the application updates or deletes them.
type AuditRecord struct {
	ID         uint      // Auto-increment primary key
	Actor      string    // Email of the principal who performed the action
	Action     string    // What was done (create, update, delete, ...)
	EntityType string    // Kind of entity acted on (instrument, index_price, ...)
	EntityID   string    // Identifier of the entity acted on
	Detail     string    // Free-form summary of the change
	CreatedAt  time.Time // When the action happened
}
