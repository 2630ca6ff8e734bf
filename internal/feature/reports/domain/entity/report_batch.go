// Package entity defines the domain entities for the reports feature.
package entity

import "time"

// Kind classifies what a report batch carries.
type Kind string

const (
	KindValuation Kind = "valuation"
	KindPosition  Kind = "position"
	KindPnL       Kind = "pnl"
)

var knownKinds = map[Kind]struct{}{
	KindValuation: {},
	KindPosition:  {},
	KindPnL:       {},
}

// ParseKind returns the Kind for s and whether s names a known kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := knownKinds[k]
	return k, ok
}

// IsValid reports whether k is one of the known report kinds.
func (k Kind) IsValid() bool {
	_, ok := knownKinds[k]
	return ok
}

// String returns the wire form of the kind.
func (k Kind) String() string {
	return string(k)
}

// Status tracks a batch through its lifecycle. Uploads start pending; the
// processor claims them into processing and finishes them completed or
// failed. Reprocessing puts a failed batch back to pending.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var knownStatuses = map[Status]struct{}{
	StatusPending:    {},
	StatusProcessing: {},
	StatusCompleted:  {},
	StatusFailed:     {},
}

// ParseStatus returns the Status for s and whether s names a known status.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := knownStatuses[st]
	return st, ok
}

// String returns the wire form of the status.
func (s Status) String() string {
	return string(s)
}

// ReportBatch is one uploaded report file awaiting or past processing.
type ReportBatch struct {
	ID           string     // UUID, assigned at upload
	FileName     string     // Stored name under the upload directory
	OriginalName string     // Client-side file name, kept for display
	Kind         Kind       // What the report carries (valuation, position, pnl)
	BusinessDate time.Time  // Reporting date the file refers to (UTC midnight)
	Status       Status     // Lifecycle state
	RowCount     int        // Data rows seen by the processor
	ErrorCount   int        // Rows the processor rejected
	Error        string     // First failure message, empty on a clean run
	SizeBytes    int64      // Upload size
	UploadedBy   string     // Email of the principal who uploaded the file
	ProcessedAt  *time.Time // When processing finished, nil while pending
	CreatedAt    time.Time  // Upload timestamp
	UpdatedAt    time.Time  // Last state change
}
