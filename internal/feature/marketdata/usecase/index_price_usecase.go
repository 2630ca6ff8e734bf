package usecase

import (
	"context"
	"fmt"
	"time"

	auditentity "fundops_backend/internal/feature/audit/domain/entity"
	"fundops_backend/internal/feature/marketdata/domain/entity"
	"fundops_backend/internal/shared/datefmt"
	"fundops_backend/internal/shared/indexcode"
	"fundops_backend/internal/shared/pagination"
)

// auditEntityType tags index price mutations in the audit trail.
const auditEntityType = "index_price"

// Filter narrows an index price listing. Zero values match everything.
type Filter struct {
	IndexCode string    // exact index code
	From      time.Time // inclusive lower bound on PriceDate
	To        time.Time // inclusive upper bound on PriceDate
}

// IndexPriceRepository abstracts persistence for index prices.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type IndexPriceRepository interface {
	// Create persists a new price. It returns ErrDuplicateIndexPrice when the
	// (IndexCode, PriceDate) pair already exists.
	Create(ctx context.Context, price *entity.IndexPrice) error

	// FindByID retrieves the price with the given ID.
	FindByID(ctx context.Context, id uint) (*entity.IndexPrice, error)

	// Find returns a filtered page of prices plus the total match count.
	Find(ctx context.Context, filter Filter, offset, limit int) ([]entity.IndexPrice, int64, error)

	// Update persists changes to an existing price.
	Update(ctx context.Context, price *entity.IndexPrice) error

	// Delete removes the given price.
	Delete(ctx context.Context, price *entity.IndexPrice) error

	// UpsertBatch inserts prices, updating on (IndexCode, PriceDate) conflicts.
	UpsertBatch(ctx context.Context, prices []entity.IndexPrice) error
}

// AuditRecorder appends entries to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, entityType, entityID, detail string)
}

// indexPriceUsecase implements the index price maintenance business logic.
type indexPriceUsecase struct {
	repo  IndexPriceRepository
	audit AuditRecorder
}

// NewIndexPriceUsecase creates a new indexPriceUsecase.
func NewIndexPriceUsecase(repo IndexPriceRepository, audit AuditRecorder) *indexPriceUsecase {
	return &indexPriceUsecase{repo: repo, audit: audit}
}

// validatePrice applies the field rules shared by create and ingest paths.
func validatePrice(price *entity.IndexPrice) error {
	if !indexcode.Valid(price.IndexCode) {
		return ErrInvalidIndexCode
	}
	if price.Price.Sign() <= 0 {
		return ErrNonPositivePrice
	}
	if price.PriceDate.After(datefmt.EndOfTodayUTC()) {
		return ErrFutureDate
	}
	return nil
}

// priceEntityID renders the audit trail identifier for a price row.
func priceEntityID(price *entity.IndexPrice) string {
	return fmt.Sprintf("%s:%s", price.IndexCode, datefmt.FormatDate(price.PriceDate))
}

// Create validates and stores a manually maintained index price.
func (u *indexPriceUsecase) Create(ctx context.Context, actor string, price entity.IndexPrice) (*entity.IndexPrice, error) {
	price.IndexCode = indexcode.Normalize(price.IndexCode)
	if err := validatePrice(&price); err != nil {
		return nil, err
	}
	if price.Source == "" {
		price.Source = entity.SourceManual
	}
	price.CreatedBy = actor
	price.UpdatedBy = actor

	if err := u.repo.Create(ctx, &price); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, actor, auditentity.ActionCreate, auditEntityType, priceEntityID(&price), "price="+price.Price.String())
	return &price, nil
}

// GetByID retrieves a single index price.
func (u *indexPriceUsecase) GetByID(ctx context.Context, id uint) (*entity.IndexPrice, error) {
	return u.repo.FindByID(ctx, id)
}

// List returns a filtered page of index prices, newest date first.
func (u *indexPriceUsecase) List(ctx context.Context, filter Filter, params pagination.Params) (*pagination.Page[entity.IndexPrice], error) {
	filter.IndexCode = indexcode.Normalize(filter.IndexCode)
	prices, total, err := u.repo.Find(ctx, filter, params.Offset(), params.PageSize)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(prices, total, params), nil
}

// Update changes the price and currency of an existing row. The index code
// and price date identify the row and cannot change; an update naming a
// different code or date fails with ErrImmutableField.
func (u *indexPriceUsecase) Update(ctx context.Context, actor string, id uint, upd entity.IndexPrice) (*entity.IndexPrice, error) {
	if upd.Price.Sign() <= 0 {
		return nil, ErrNonPositivePrice
	}

	existing, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.IndexCode != "" && indexcode.Normalize(upd.IndexCode) != existing.IndexCode {
		return nil, ErrImmutableField
	}
	if !upd.PriceDate.IsZero() && !upd.PriceDate.Equal(existing.PriceDate) {
		return nil, ErrImmutableField
	}

	existing.Price = upd.Price
	existing.Currency = upd.Currency
	existing.UpdatedBy = actor

	if err := u.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, actor, auditentity.ActionUpdate, auditEntityType, priceEntityID(existing), "price="+existing.Price.String())
	return existing, nil
}

// Delete removes an index price.
func (u *indexPriceUsecase) Delete(ctx context.Context, actor string, id uint) error {
	existing, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, existing); err != nil {
		return err
	}
	u.audit.Record(ctx, actor, auditentity.ActionDelete, auditEntityType, priceEntityID(existing), "price="+existing.Price.String())
	return nil
}
