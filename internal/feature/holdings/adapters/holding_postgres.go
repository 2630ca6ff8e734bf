// Package adapters provides repository implementations for the holdings feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fundops_backend/internal/feature/holdings/domain/entity"
	"fundops_backend/internal/feature/holdings/usecase"
	"fundops_backend/internal/shared/dberr"
)

// CustomHoldingModel is the GORM model for the custom_holdings table.
type CustomHoldingModel struct {
	ID            uint            `gorm:"primaryKey"`
	PortfolioCode string          `gorm:"size:16;not null;uniqueIndex:idx_holding_portfolio_isin_date,priority:1"`
	ISIN          string          `gorm:"size:12;not null;uniqueIndex:idx_holding_portfolio_isin_date,priority:2"`
	Quantity      decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	MarketValue   decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Currency      string          `gorm:"size:3;not null"`
	EffectiveDate time.Time       `gorm:"not null;uniqueIndex:idx_holding_portfolio_isin_date,priority:3"`
	Note          string          `gorm:"size:500"`
	CreatedBy     string          `gorm:"size:255"`
	UpdatedBy     string          `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM.
func (CustomHoldingModel) TableName() string {
	return "custom_holdings"
}

// ToEntity converts the GORM model to a domain entity.
func (m *CustomHoldingModel) ToEntity() entity.CustomHolding {
	return entity.CustomHolding{
		ID:            m.ID,
		PortfolioCode: m.PortfolioCode,
		ISIN:          m.ISIN,
		Quantity:      m.Quantity,
		MarketValue:   m.MarketValue,
		Currency:      m.Currency,
		EffectiveDate: m.EffectiveDate,
		Note:          m.Note,
		CreatedBy:     m.CreatedBy,
		UpdatedBy:     m.UpdatedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// toModel converts a domain entity to the GORM model.
func toModel(e entity.CustomHolding) CustomHoldingModel {
	return CustomHoldingModel{
		ID:            e.ID,
		PortfolioCode: e.PortfolioCode,
		ISIN:          e.ISIN,
		Quantity:      e.Quantity,
		MarketValue:   e.MarketValue,
		Currency:      e.Currency,
		EffectiveDate: e.EffectiveDate,
		Note:          e.Note,
		CreatedBy:     e.CreatedBy,
		UpdatedBy:     e.UpdatedBy,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// holdingPostgres is a PostgreSQL implementation of the CustomHoldingRepository interface.
type holdingPostgres struct {
	db *gorm.DB
}

// Compile-time check to ensure holdingPostgres implements CustomHoldingRepository.
var _ usecase.CustomHoldingRepository = (*holdingPostgres)(nil)

// NewHoldingPostgres creates a new instance of holdingPostgres.
func NewHoldingPostgres(db *gorm.DB) *holdingPostgres {
	return &holdingPostgres{db: db}
}

// Create persists a new holding.
// It returns usecase.ErrHoldingAlreadyExists when the
// (portfolio_code, isin, effective_date) key is already stored.
func (r *holdingPostgres) Create(ctx context.Context, holding *entity.CustomHolding) error {
	m := toModel(*holding)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if dberr.IsDuplicate(err) {
			return usecase.ErrHoldingAlreadyExists
		}
		return err
	}
	holding.ID = m.ID
	holding.CreatedAt = m.CreatedAt
	holding.UpdatedAt = m.UpdatedAt
	return nil
}

// FindByID retrieves a holding by its primary key.
// It returns usecase.ErrHoldingNotFound when no row matches.
func (r *holdingPostgres) FindByID(ctx context.Context, id uint) (*entity.CustomHolding, error) {
	var m CustomHoldingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrHoldingNotFound
		}
		return nil, err
	}
	e := m.ToEntity()
	return &e, nil
}

// Find returns a filtered page of holdings, newest effective date first, plus
// the total match count.
func (r *holdingPostgres) Find(ctx context.Context, filter usecase.Filter, offset, limit int) ([]entity.CustomHolding, int64, error) {
	q := r.db.WithContext(ctx).Model(&CustomHoldingModel{})

	if filter.PortfolioCode != "" {
		q = q.Where("portfolio_code = ?", filter.PortfolioCode)
	}
	if filter.ISIN != "" {
		q = q.Where("isin = ?", filter.ISIN)
	}
	if !filter.From.IsZero() {
		q = q.Where("effective_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("effective_date <= ?", filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []CustomHoldingModel
	if err := q.Order("effective_date DESC, portfolio_code ASC, isin ASC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	holdings := make([]entity.CustomHolding, len(models))
	for i, m := range models {
		holdings[i] = m.ToEntity()
	}
	return holdings, total, nil
}

// Update saves the full holding row identified by the entity's primary key.
func (r *holdingPostgres) Update(ctx context.Context, holding *entity.CustomHolding) error {
	m := toModel(*holding)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		if dberr.IsDuplicate(err) {
			return usecase.ErrHoldingAlreadyExists
		}
		return err
	}
	holding.UpdatedAt = m.UpdatedAt
	return nil
}

// Delete removes the given holding.
// It returns usecase.ErrHoldingNotFound when no row was deleted.
func (r *holdingPostgres) Delete(ctx context.Context, holding *entity.CustomHolding) error {
	result := r.db.WithContext(ctx).Delete(&CustomHoldingModel{}, holding.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrHoldingNotFound
	}
	return nil
}

// UpsertBatch writes holdings in one statement, updating the valuation fields
// and the updater on (portfolio_code, isin, effective_date) conflicts. A
// single statement keeps the import all-or-nothing.
func (r *holdingPostgres) UpsertBatch(ctx context.Context, holdings []entity.CustomHolding) error {
	if len(holdings) == 0 {
		return nil
	}
	ms := make([]CustomHoldingModel, 0, len(holdings))
	for _, e := range holdings {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "portfolio_code"}, {Name: "isin"}, {Name: "effective_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "market_value", "currency", "note", "updated_by", "updated_at"}),
	}).Create(&ms).Error
}

// CountByISIN reports how many holdings reference the given ISIN. The
// instruments feature consults it before deleting an instrument.
func (r *holdingPostgres) CountByISIN(ctx context.Context, isin string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&CustomHoldingModel{}).Where("isin = ?", isin).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
