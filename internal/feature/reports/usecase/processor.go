package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fundops_backend/internal/feature/reports/domain/entity"
	"fundops_backend/internal/shared/isin"
)

// reportColumns are the header columns every report kind must carry.
// Extra columns are ignored.
var reportColumns = []string{"isin", "quantity", "market_value"}

// BatchProcessor drains the pending report batch queue. One sweep claims a
// bounded number of batches so a large backlog never starves a single run.
type BatchProcessor struct {
	repo       ReportBatchRepository
	files      FileStore
	claimLimit int
	staleAfter time.Duration
}

// NewBatchProcessor creates a new BatchProcessor. claimLimit bounds how many
// batches one sweep takes on; staleAfter is how long a batch may sit in
// processing before it is handed back to the queue (crash recovery).
func NewBatchProcessor(repo ReportBatchRepository, files FileStore, claimLimit int, staleAfter time.Duration) *BatchProcessor {
	return &BatchProcessor{repo: repo, files: files, claimLimit: claimLimit, staleAfter: staleAfter}
}

// ProcessDue claims due pending batches, oldest first, and processes each.
// It returns how many batches this sweep handled. The claim is an optimistic
// status transition, so concurrent sweeps never double-process a batch.
func (p *BatchProcessor) ProcessDue(ctx context.Context) (int, error) {
	reset, err := p.repo.ResetStale(ctx, time.Now().Add(-p.staleAfter))
	if err != nil {
		slog.Error("failed to reset stale batches", "error", err)
	} else if reset > 0 {
		slog.Warn("reset stale processing batches", "count", reset)
	}

	batches, err := p.repo.ClaimPending(ctx, p.claimLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to claim pending batches: %w", err)
	}

	for i := range batches {
		p.process(ctx, &batches[i])
	}
	return len(batches), nil
}

// process runs one claimed batch to completed or failed.
func (p *BatchProcessor) process(ctx context.Context, batch *entity.ReportBatch) {
	rowCount, errorCount, firstErr, err := p.scanFile(batch.FileName)

	batch.RowCount = rowCount
	batch.ErrorCount = errorCount
	switch {
	case err != nil:
		batch.Status = entity.StatusFailed
		batch.Error = err.Error()
	case rowCount == 0:
		batch.Status = entity.StatusFailed
		batch.Error = "csv file contains no data rows"
	case errorCount == rowCount:
		batch.Status = entity.StatusFailed
		batch.Error = firstErr
	default:
		batch.Status = entity.StatusCompleted
		batch.Error = firstErr
	}
	now := time.Now().UTC()
	batch.ProcessedAt = &now

	if err := p.repo.Update(ctx, batch); err != nil {
		// The batch stays in processing; the stale reset re-queues it.
		slog.Error("failed to finish batch", "id", batch.ID, "error", err)
		return
	}

	if batch.Status == entity.StatusFailed {
		slog.Warn("report batch failed", "id", batch.ID, "kind", batch.Kind, "error", batch.Error)
		return
	}
	slog.Info("report batch processed", "id", batch.ID, "kind", batch.Kind, "rows", rowCount, "errors", errorCount)
}

// scanFile validates every data row of the stored csv. It returns the row
// and error counts plus the first row-level failure message. A non-nil error
// means the file itself was unusable (unreadable, empty, bad header). Line
// numbers count the header as line 1.
func (p *BatchProcessor) scanFile(fileName string) (rowCount, errorCount int, firstErr string, err error) {
	f, err := p.files.Open(fileName)
	if err != nil {
		return 0, 0, "", fmt.Errorf("failed to open stored file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, 0, "", errors.New("csv file is empty")
	}
	if err != nil {
		return 0, 0, "", fmt.Errorf("failed to read csv header: %w", err)
	}
	cols, err := reportColumnIndex(header)
	if err != nil {
		return 0, 0, "", err
	}

	reject := func(line int, msg string) {
		errorCount++
		if firstErr == "" {
			firstErr = fmt.Sprintf("line %d: %s", line, msg)
		}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return rowCount, errorCount, firstErr, fmt.Errorf("failed to read csv: %w", err)
			}
			rowCount++
			reject(line, parseErr.Err.Error())
			continue
		}
		rowCount++

		if msg := validateReportRow(cols, record); msg != "" {
			reject(line, msg)
		}
	}
	return rowCount, errorCount, firstErr, nil
}

// validateReportRow checks one csv record and returns an empty string when
// the row is acceptable.
func validateReportRow(cols map[string]int, record []string) string {
	cell := func(name string) string {
		return strings.TrimSpace(record[cols[name]])
	}

	if code := isin.Normalize(cell("isin")); !isin.Valid(code) {
		return fmt.Sprintf("invalid isin %q", cell("isin"))
	}
	if _, err := decimal.NewFromString(cell("quantity")); err != nil {
		return fmt.Sprintf("quantity %q is not a number", cell("quantity"))
	}
	if _, err := decimal.NewFromString(cell("market_value")); err != nil {
		return fmt.Sprintf("market_value %q is not a number", cell("market_value"))
	}
	return ""
}

// reportColumnIndex maps the required report columns to their positions in
// the header. Column names are case-insensitive and may appear in any order.
func reportColumnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range reportColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("csv header is missing required column %q", name)
		}
	}
	return index, nil
}
