package usecase

import (
	"context"
	"fmt"

	auditentity "fundops_backend/internal/feature/audit/domain/entity"
	"fundops_backend/internal/feature/instruments/domain/entity"
	"fundops_backend/internal/shared/isin"
	"fundops_backend/internal/shared/pagination"
)

// auditEntityType tags instrument mutations in the audit trail.
const auditEntityType = "instrument"

// Filter narrows an instrument listing. Zero values match everything.
type Filter struct {
	Search string      // case-insensitive substring over ISIN, name, symbol
	Type   entity.Type // exact type
	Active *bool       // nil matches both active and inactive instruments
}

// InstrumentRepository abstracts persistence for instruments.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type InstrumentRepository interface {
	// Create persists a new instrument. It returns ErrInstrumentAlreadyExists for duplicate ISINs.
	Create(ctx context.Context, inst *entity.Instrument) error

	// FindByISIN retrieves the instrument with the given ISIN.
	FindByISIN(ctx context.Context, isin string) (*entity.Instrument, error)

	// Find returns a filtered page of instruments plus the total match count.
	Find(ctx context.Context, filter Filter, offset, limit int) ([]entity.Instrument, int64, error)

	// Update persists changes to an existing instrument.
	Update(ctx context.Context, inst *entity.Instrument) error

	// DeleteByISIN removes the instrument with the given ISIN.
	DeleteByISIN(ctx context.Context, isin string) error
}

// HoldingCounter reports how many custom holdings reference an ISIN.
// Deleting an instrument must not orphan holdings rows.
type HoldingCounter interface {
	CountByISIN(ctx context.Context, isin string) (int64, error)
}

// AuditRecorder appends entries to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, entityType, entityID, detail string)
}

// instrumentUsecase implements the instrument static-data business logic.
type instrumentUsecase struct {
	repo     InstrumentRepository
	holdings HoldingCounter
	audit    AuditRecorder
}

// NewInstrumentUsecase creates a new instrumentUsecase.
func NewInstrumentUsecase(repo InstrumentRepository, holdings HoldingCounter, audit AuditRecorder) *instrumentUsecase {
	return &instrumentUsecase{repo: repo, holdings: holdings, audit: audit}
}

// Create validates and registers a new instrument. The actor becomes both
// CreatedBy and UpdatedBy.
func (u *instrumentUsecase) Create(ctx context.Context, actor string, inst entity.Instrument) (*entity.Instrument, error) {
	inst.ISIN = isin.Normalize(inst.ISIN)
	if !isin.Valid(inst.ISIN) {
		return nil, ErrInvalidISIN
	}
	if !inst.Type.IsValid() {
		return nil, ErrInvalidType
	}
	inst.CreatedBy = actor
	inst.UpdatedBy = actor

	if err := u.repo.Create(ctx, &inst); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, actor, auditentity.ActionCreate, auditEntityType, inst.ISIN, inst.Name)
	return &inst, nil
}

// GetByISIN retrieves a single instrument.
func (u *instrumentUsecase) GetByISIN(ctx context.Context, code string) (*entity.Instrument, error) {
	return u.repo.FindByISIN(ctx, isin.Normalize(code))
}

// List returns a filtered page of instruments.
func (u *instrumentUsecase) List(ctx context.Context, filter Filter, params pagination.Params) (*pagination.Page[entity.Instrument], error) {
	instruments, total, err := u.repo.Find(ctx, filter, params.Offset(), params.PageSize)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(instruments, total, params), nil
}

// Update replaces the mutable fields of an existing instrument. The ISIN is
// the immutable key; only name, symbol, type, currency, exchange, and the
// active flag change.
func (u *instrumentUsecase) Update(ctx context.Context, actor, code string, upd entity.Instrument) (*entity.Instrument, error) {
	if !upd.Type.IsValid() {
		return nil, ErrInvalidType
	}

	existing, err := u.repo.FindByISIN(ctx, isin.Normalize(code))
	if err != nil {
		return nil, err
	}

	existing.Name = upd.Name
	existing.Symbol = upd.Symbol
	existing.Type = upd.Type
	existing.Currency = upd.Currency
	existing.Exchange = upd.Exchange
	existing.Active = upd.Active
	existing.UpdatedBy = actor

	if err := u.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, actor, auditentity.ActionUpdate, auditEntityType, existing.ISIN, existing.Name)
	return existing, nil
}

// Delete removes an instrument. It fails with ErrInstrumentReferenced while
// custom holdings still point at the ISIN.
func (u *instrumentUsecase) Delete(ctx context.Context, actor, code string) error {
	inst, err := u.repo.FindByISIN(ctx, isin.Normalize(code))
	if err != nil {
		return err
	}

	refs, err := u.holdings.CountByISIN(ctx, inst.ISIN)
	if err != nil {
		return fmt.Errorf("failed to count referencing holdings: %w", err)
	}
	if refs > 0 {
		return ErrInstrumentReferenced
	}

	if err := u.repo.DeleteByISIN(ctx, inst.ISIN); err != nil {
		return err
	}
	u.audit.Record(ctx, actor, auditentity.ActionDelete, auditEntityType, inst.ISIN, inst.Name)
	return nil
}
