package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	auditentity "fundops_backend/internal/feature/audit/domain/entity"
	"fundops_backend/internal/feature/reports/domain/entity"
	"fundops_backend/internal/shared/datefmt"
	"fundops_backend/internal/shared/pagination"
)

// auditEntityType tags report batch mutations in the audit trail.
const auditEntityType = "report_batch"

// Filter narrows a batch listing. Zero values match everything.
type Filter struct {
	Status entity.Status // exact lifecycle state
	Kind   entity.Kind   // exact report kind
	From   time.Time     // inclusive business-date lower bound
	To     time.Time     // inclusive business-date upper bound
}

// UploadInput carries one multipart upload into the usecase.
type UploadInput struct {
	Kind         string
	BusinessDate time.Time
	OriginalName string
	SizeBytes    int64
	Content      io.Reader
}

// ReportBatchRepository abstracts persistence for report batches.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type ReportBatchRepository interface {
	// Create persists a new batch.
	Create(ctx context.Context, batch *entity.ReportBatch) error

	// FindByID retrieves the batch with the given ID.
	FindByID(ctx context.Context, id string) (*entity.ReportBatch, error)

	// Find returns a filtered page of batches plus the total match count.
	Find(ctx context.Context, filter Filter, offset, limit int) ([]entity.ReportBatch, int64, error)

	// Update persists changes to an existing batch.
	Update(ctx context.Context, batch *entity.ReportBatch) error

	// Delete removes the given batch.
	Delete(ctx context.Context, batch *entity.ReportBatch) error

	// ClaimPending atomically flips up to limit pending batches, oldest
	// first, to processing and returns the claimed ones. Batches another
	// sweep claimed in between are skipped.
	ClaimPending(ctx context.Context, limit int) ([]entity.ReportBatch, error)

	// ResetStale returns processing batches untouched since cutoff to
	// pending and reports how many were reset.
	ResetStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// FileStore abstracts where uploaded report files live.
type FileStore interface {
	// Save streams content into the store under name. It fails when name
	// is already taken.
	Save(name string, content io.Reader) error

	// Open returns the stored file for reading.
	Open(name string) (io.ReadCloser, error)

	// Remove deletes the stored file.
	Remove(name string) error
}

// AuditRecorder appends entries to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, entityType, entityID, detail string)
}

// reportUsecase implements the report batch lifecycle business logic.
type reportUsecase struct {
	repo  ReportBatchRepository
	files FileStore
	audit AuditRecorder
}

// NewReportUsecase creates a new reportUsecase.
func NewReportUsecase(repo ReportBatchRepository, files FileStore, audit AuditRecorder) *reportUsecase {
	return &reportUsecase{repo: repo, files: files, audit: audit}
}

// Upload validates the submission, stores the file under a fresh UUID, and
// registers the batch in status pending for the processor to pick up.
func (u *reportUsecase) Upload(ctx context.Context, actor string, in UploadInput) (*entity.ReportBatch, error) {
	kind, ok := entity.ParseKind(in.Kind)
	if !ok {
		return nil, ErrInvalidKind
	}
	if in.BusinessDate.After(datefmt.EndOfTodayUTC()) {
		return nil, ErrFutureDate
	}
	if !strings.HasSuffix(strings.ToLower(in.OriginalName), ".csv") {
		return nil, ErrNotCSV
	}
	if in.SizeBytes <= 0 {
		return nil, ErrEmptyFile
	}

	batch := entity.ReportBatch{
		ID:           uuid.NewString(),
		OriginalName: in.OriginalName,
		Kind:         kind,
		BusinessDate: in.BusinessDate,
		Status:       entity.StatusPending,
		SizeBytes:    in.SizeBytes,
		UploadedBy:   actor,
	}
	batch.FileName = batch.ID + ".csv"

	if err := u.files.Save(batch.FileName, in.Content); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if err := u.repo.Create(ctx, &batch); err != nil {
		if removeErr := u.files.Remove(batch.FileName); removeErr != nil {
			slog.Warn("failed to remove orphaned upload", "file", batch.FileName, "error", removeErr)
		}
		return nil, err
	}

	u.audit.Record(ctx, actor, auditentity.ActionUpload, auditEntityType, batch.ID, batch.OriginalName)
	return &batch, nil
}

// GetByID retrieves a single batch.
func (u *reportUsecase) GetByID(ctx context.Context, id string) (*entity.ReportBatch, error) {
	return u.repo.FindByID(ctx, id)
}

// List returns a filtered page of batches, newest first.
func (u *reportUsecase) List(ctx context.Context, filter Filter, params pagination.Params) (*pagination.Page[entity.ReportBatch], error) {
	batches, total, err := u.repo.Find(ctx, filter, params.Offset(), params.PageSize)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(batches, total, params), nil
}

// Reprocess puts a failed batch back in the processor's queue. Counters and
// the failure message reset so the next run starts clean.
func (u *reportUsecase) Reprocess(ctx context.Context, actor, id string) (*entity.ReportBatch, error) {
	batch, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch.Status != entity.StatusFailed {
		return nil, ErrNotReprocessable
	}

	batch.Status = entity.StatusPending
	batch.RowCount = 0
	batch.ErrorCount = 0
	batch.Error = ""
	batch.ProcessedAt = nil

	if err := u.repo.Update(ctx, batch); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, actor, auditentity.ActionReprocess, auditEntityType, batch.ID, batch.OriginalName)
	return batch, nil
}

// Delete removes a batch and its stored file. The file removal is
// best-effort: the row is the source of truth and an orphaned file only
// costs disk space.
func (u *reportUsecase) Delete(ctx context.Context, actor, id string) error {
	batch, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if batch.Status == entity.StatusProcessing {
		return ErrBatchProcessing
	}

	if err := u.repo.Delete(ctx, batch); err != nil {
		return err
	}
	if err := u.files.Remove(batch.FileName); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove report file", "file", batch.FileName, "error", err)
	}

	u.audit.Record(ctx, actor, auditentity.ActionDelete, auditEntityType, batch.ID, batch.OriginalName)
	return nil
}
