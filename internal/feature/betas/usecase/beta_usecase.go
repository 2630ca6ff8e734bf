package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	auditentity "fundops_backend/internal/feature/audit/domain/entity"
	"fundops_backend/internal/feature/betas/domain/entity"
	"fundops_backend/internal/shared/datefmt"
	"fundops_backend/internal/shared/indexcode"
	"fundops_backend/internal/shared/isin"
	"fundops_backend/internal/shared/pagination"
)

// auditEntityType tags beta mutations in the audit trail.
const auditEntityType = "instrument_beta"

// betaBound caps the accepted beta magnitude. Equity betas cluster around 1;
// anything beyond ±20 is a data error, not an exotic instrument.
var betaBound = decimal.NewFromInt(20)

// Filter narrows a beta listing. Zero values match everything.
type Filter struct {
	ISIN      string // exact instrument identifier
	IndexCode string // exact benchmark index code
}

// InstrumentBetaRepository abstracts persistence for instrument betas.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type InstrumentBetaRepository interface {
	// FindByID retrieves the beta with the given ID.
	FindByID(ctx context.Context, id uint) (*entity.InstrumentBeta, error)

	// Find returns a filtered page of betas plus the total match count.
	Find(ctx context.Context, filter Filter, offset, limit int) ([]entity.InstrumentBeta, int64, error)

	// UpsertBatch writes betas atomically, replacing the stored value on
	// (ISIN, IndexCode, EffectiveDate) conflicts.
	UpsertBatch(ctx context.Context, betas []entity.InstrumentBeta) error

	// Delete removes the given beta.
	Delete(ctx context.Context, beta *entity.InstrumentBeta) error
}

// AuditRecorder appends entries to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, entityType, entityID, detail string)
}

// betaUsecase implements the instrument beta maintenance business logic.
type betaUsecase struct {
	repo  InstrumentBetaRepository
	audit AuditRecorder
}

// NewBetaUsecase creates a new betaUsecase.
func NewBetaUsecase(repo InstrumentBetaRepository, audit AuditRecorder) *betaUsecase {
	return &betaUsecase{repo: repo, audit: audit}
}

// validateBeta applies the field rules for one upsert row. The row is
// normalized in place so storage never depends on client casing.
func validateBeta(beta *entity.InstrumentBeta) error {
	beta.ISIN = isin.Normalize(beta.ISIN)
	if !isin.Valid(beta.ISIN) {
		return ErrInvalidISIN
	}
	beta.IndexCode = indexcode.Normalize(beta.IndexCode)
	if !indexcode.Valid(beta.IndexCode) {
		return ErrInvalidIndexCode
	}
	if beta.Beta.Abs().GreaterThan(betaBound) {
		return ErrBetaOutOfRange
	}
	if beta.EffectiveDate.After(datefmt.EndOfTodayUTC()) {
		return ErrFutureDate
	}
	return nil
}

// betaEntityID renders the audit trail identifier for a beta row.
func betaEntityID(beta *entity.InstrumentBeta) string {
	return fmt.Sprintf("%s:%s:%s", beta.ISIN, beta.IndexCode, datefmt.FormatDate(beta.EffectiveDate))
}

// List returns a filtered page of betas, newest effective date first.
func (u *betaUsecase) List(ctx context.Context, filter Filter, params pagination.Params) (*pagination.Page[entity.InstrumentBeta], error) {
	filter.ISIN = isin.Normalize(filter.ISIN)
	filter.IndexCode = indexcode.Normalize(filter.IndexCode)
	betas, total, err := u.repo.Find(ctx, filter, params.Offset(), params.PageSize)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(betas, total, params), nil
}

// BulkUpsert validates every row, then writes them all or none. A row that
// fails validation aborts the whole submission; the error names the first
// offending row index and wraps the usual validation sentinel. On success it
// returns the number of rows written.
func (u *betaUsecase) BulkUpsert(ctx context.Context, actor string, betas []entity.InstrumentBeta) (int, error) {
	if len(betas) == 0 {
		return 0, ErrNoRows
	}

	// A repeated key inside one statement would make the upsert affect the
	// same row twice, which PostgreSQL rejects.
	type betaKey struct {
		isin, code string
		effective  int64
	}
	seen := make(map[betaKey]struct{}, len(betas))

	for i := range betas {
		if err := validateBeta(&betas[i]); err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		key := betaKey{betas[i].ISIN, betas[i].IndexCode, betas[i].EffectiveDate.Unix()}
		if _, dup := seen[key]; dup {
			return 0, fmt.Errorf("row %d: %w", i, ErrDuplicateRow)
		}
		seen[key] = struct{}{}
		betas[i].CreatedBy = actor
		betas[i].UpdatedBy = actor
	}

	if err := u.repo.UpsertBatch(ctx, betas); err != nil {
		return 0, err
	}
	u.audit.Record(ctx, actor, auditentity.ActionUpsert, auditEntityType, "bulk", fmt.Sprintf("rows=%d", len(betas)))
	return len(betas), nil
}

// Delete removes an instrument beta.
func (u *betaUsecase) Delete(ctx context.Context, actor string, id uint) error {
	existing, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, existing); err != nil {
		return err
	}
	u.audit.Record(ctx, actor, auditentity.ActionDelete, auditEntityType, betaEntityID(existing), "beta="+existing.Beta.String())
	return nil
}
