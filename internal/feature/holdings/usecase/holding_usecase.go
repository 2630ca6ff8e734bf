package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	auditentity "fundops_backend/internal/feature/audit/domain/entity"
	"fundops_backend/internal/feature/holdings/domain/entity"
	"fundops_backend/internal/shared/datefmt"
	"fundops_backend/internal/shared/isin"
	"fundops_backend/internal/shared/pagination"
)

// auditEntityType tags holding mutations in the audit trail.
const auditEntityType = "custom_holding"

// maxNoteLen caps the free-form note field.
const maxNoteLen = 500

var (
	// portfolioCodePattern validates normalized portfolio codes: 2-16
	// uppercase letters or digits, starting with a letter.
	portfolioCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,15}$`)

	// currencyPattern validates normalized currency codes.
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

	// importColumns are the header columns an import file must carry.
	// Order does not matter and extra columns are ignored.
	importColumns = []string{"portfolio_code", "isin", "quantity", "market_value", "currency", "effective_date"}
)

// Filter narrows a holding listing. Zero values match everything.
type Filter struct {
	PortfolioCode string    // exact portfolio identifier
	ISIN          string    // exact instrument identifier
	From          time.Time // inclusive effective-date lower bound
	To            time.Time // inclusive effective-date upper bound
}

// CustomHoldingRepository abstracts persistence for custom holdings.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CustomHoldingRepository interface {
	// Create persists a new holding. It returns ErrHoldingAlreadyExists when
	// the (portfolio code, isin, effective date) key is already stored.
	Create(ctx context.Context, holding *entity.CustomHolding) error

	// FindByID retrieves the holding with the given ID.
	FindByID(ctx context.Context, id uint) (*entity.CustomHolding, error)

	// Find returns a filtered page of holdings plus the total match count.
	Find(ctx context.Context, filter Filter, offset, limit int) ([]entity.CustomHolding, int64, error)

	// Update persists changes to an existing holding.
	Update(ctx context.Context, holding *entity.CustomHolding) error

	// Delete removes the given holding.
	Delete(ctx context.Context, holding *entity.CustomHolding) error

	// UpsertBatch writes holdings atomically, replacing the stored row on
	// (portfolio code, isin, effective date) conflicts.
	UpsertBatch(ctx context.Context, holdings []entity.CustomHolding) error
}

// InstrumentChecker reports whether an ISIN is registered in the security
// master. Holdings must never reference instruments the desk does not know.
type InstrumentChecker interface {
	ExistsByISIN(ctx context.Context, isin string) (bool, error)
}

// AuditRecorder appends entries to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, entityType, entityID, detail string)
}

// holdingUsecase implements the custom holding maintenance business logic.
type holdingUsecase struct {
	repo        CustomHoldingRepository
	instruments InstrumentChecker
	audit       AuditRecorder
}

// NewHoldingUsecase creates a new holdingUsecase.
func NewHoldingUsecase(repo CustomHoldingRepository, instruments InstrumentChecker, audit AuditRecorder) *holdingUsecase {
	return &holdingUsecase{repo: repo, instruments: instruments, audit: audit}
}

// validateHolding applies the field rules for one holding. The row is
// normalized in place so storage never depends on client casing.
func validateHolding(h *entity.CustomHolding) error {
	h.PortfolioCode = strings.ToUpper(strings.TrimSpace(h.PortfolioCode))
	if !portfolioCodePattern.MatchString(h.PortfolioCode) {
		return ErrInvalidPortfolioCode
	}
	h.ISIN = isin.Normalize(h.ISIN)
	if !isin.Valid(h.ISIN) {
		return ErrInvalidISIN
	}
	if h.Quantity.IsZero() {
		return ErrZeroQuantity
	}
	if h.MarketValue.IsNegative() {
		return ErrNegativeMarketValue
	}
	h.Currency = strings.ToUpper(strings.TrimSpace(h.Currency))
	if !currencyPattern.MatchString(h.Currency) {
		return ErrInvalidCurrency
	}
	if h.EffectiveDate.After(datefmt.EndOfTodayUTC()) {
		return ErrFutureDate
	}
	if utf8.RuneCountInString(h.Note) > maxNoteLen {
		return ErrNoteTooLong
	}
	return nil
}

// holdingEntityID renders the audit trail identifier for a holding row.
func holdingEntityID(h *entity.CustomHolding) string {
	return fmt.Sprintf("%s:%s:%s", h.PortfolioCode, h.ISIN, datefmt.FormatDate(h.EffectiveDate))
}

// requireInstrument rejects holdings whose ISIN the security master does not know.
func (u *holdingUsecase) requireInstrument(ctx context.Context, code string) error {
	exists, err := u.instruments.ExistsByISIN(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to check instrument %s: %w", code, err)
	}
	if !exists {
		return ErrUnknownInstrument
	}
	return nil
}

// Create validates and registers a new holding. The actor becomes both
// CreatedBy and UpdatedBy.
func (u *holdingUsecase) Create(ctx context.Context, actor string, holding entity.CustomHolding) (*entity.CustomHolding, error) {
	if err := validateHolding(&holding); err != nil {
		return nil, err
	}
	if err := u.requireInstrument(ctx, holding.ISIN); err != nil {
		return nil, err
	}
	holding.CreatedBy = actor
	holding.UpdatedBy = actor

	if err := u.repo.Create(ctx, &holding); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, actor, auditentity.ActionCreate, auditEntityType, holdingEntityID(&holding), "quantity="+holding.Quantity.String())
	return &holding, nil
}

// GetByID retrieves a single holding.
func (u *holdingUsecase) GetByID(ctx context.Context, id uint) (*entity.CustomHolding, error) {
	return u.repo.FindByID(ctx, id)
}

// List returns a filtered page of holdings.
func (u *holdingUsecase) List(ctx context.Context, filter Filter, params pagination.Params) (*pagination.Page[entity.CustomHolding], error) {
	filter.PortfolioCode = strings.ToUpper(strings.TrimSpace(filter.PortfolioCode))
	filter.ISIN = isin.Normalize(filter.ISIN)
	holdings, total, err := u.repo.Find(ctx, filter, params.Offset(), params.PageSize)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(holdings, total, params), nil
}

// Update replaces the mutable fields of an existing holding. The
// (portfolio code, isin, effective date) key is immutable; only quantity,
// market value, currency, and note change.
func (u *holdingUsecase) Update(ctx context.Context, actor string, id uint, upd entity.CustomHolding) (*entity.CustomHolding, error) {
	existing, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Quantity = upd.Quantity
	existing.MarketValue = upd.MarketValue
	existing.Currency = upd.Currency
	existing.Note = upd.Note
	if err := validateHolding(existing); err != nil {
		return nil, err
	}
	existing.UpdatedBy = actor

	if err := u.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, actor, auditentity.ActionUpdate, auditEntityType, holdingEntityID(existing), "quantity="+existing.Quantity.String())
	return existing, nil
}

// Delete removes a holding.
func (u *holdingUsecase) Delete(ctx context.Context, actor string, id uint) error {
	existing, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, existing); err != nil {
		return err
	}
	u.audit.Record(ctx, actor, auditentity.ActionDelete, auditEntityType, holdingEntityID(existing), "quantity="+existing.Quantity.String())
	return nil
}

// ImportCSV ingests a holdings file, replacing stored rows that collide on
// (portfolio code, isin, effective date). The file applies all or nothing:
// the first invalid line aborts the import and nothing is written. Line
// numbers in errors count the header as line 1. On success it returns the
// number of rows written.
func (u *holdingUsecase) ImportCSV(ctx context.Context, actor string, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, ErrEmptyFile
	}
	if err != nil {
		return 0, fmt.Errorf("line 1: %w: %v", ErrMalformedRow, err)
	}
	cols, err := importColumnIndex(header)
	if err != nil {
		return 0, err
	}

	// A repeated key inside one statement would make the upsert affect the
	// same row twice, which PostgreSQL rejects.
	type holdingKey struct {
		portfolio, isin string
		effective       int64
	}
	seen := make(map[holdingKey]struct{})

	var holdings []entity.CustomHolding
	var lines []int
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("line %d: %w: %v", line, ErrMalformedRow, err)
		}

		holding, err := parseImportRow(cols, record)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		if err := validateHolding(&holding); err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}

		key := holdingKey{holding.PortfolioCode, holding.ISIN, holding.EffectiveDate.Unix()}
		if _, dup := seen[key]; dup {
			return 0, fmt.Errorf("line %d: %w", line, ErrDuplicateRow)
		}
		seen[key] = struct{}{}

		holding.CreatedBy = actor
		holding.UpdatedBy = actor
		holdings = append(holdings, holding)
		lines = append(lines, line)
	}
	if len(holdings) == 0 {
		return 0, ErrEmptyFile
	}

	// Every distinct ISIN is checked once, in row order, so the error still
	// names the first offending line.
	known := make(map[string]bool)
	for i := range holdings {
		code := holdings[i].ISIN
		exists, checked := known[code]
		if !checked {
			exists, err = u.instruments.ExistsByISIN(ctx, code)
			if err != nil {
				return 0, fmt.Errorf("failed to check instrument %s: %w", code, err)
			}
			known[code] = exists
		}
		if !exists {
			return 0, fmt.Errorf("line %d: %w", lines[i], ErrUnknownInstrument)
		}
	}

	if err := u.repo.UpsertBatch(ctx, holdings); err != nil {
		return 0, err
	}
	u.audit.Record(ctx, actor, auditentity.ActionImport, auditEntityType, "csv", fmt.Sprintf("rows=%d", len(holdings)))
	return len(holdings), nil
}

// importColumnIndex maps the required import columns to their positions in
// the header. Column names are case-insensitive and may appear in any order.
func importColumnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range importColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}
	return index, nil
}

// parseImportRow builds a holding from one csv record. The csv reader has
// already enforced that the record is as wide as the header.
func parseImportRow(cols map[string]int, record []string) (entity.CustomHolding, error) {
	cell := func(name string) string {
		return strings.TrimSpace(record[cols[name]])
	}

	quantity, err := decimal.NewFromString(cell("quantity"))
	if err != nil {
		return entity.CustomHolding{}, fmt.Errorf("%w: quantity %q is not a number", ErrMalformedRow, cell("quantity"))
	}
	marketValue, err := decimal.NewFromString(cell("market_value"))
	if err != nil {
		return entity.CustomHolding{}, fmt.Errorf("%w: market_value %q is not a number", ErrMalformedRow, cell("market_value"))
	}
	effective, err := datefmt.ParseDate(cell("effective_date"))
	if err != nil {
		return entity.CustomHolding{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}

	return entity.CustomHolding{
		PortfolioCode: cell("portfolio_code"),
		ISIN:          cell("isin"),
		Quantity:      quantity,
		MarketValue:   marketValue,
		Currency:      cell("currency"),
		EffectiveDate: effective,
	}, nil
}
