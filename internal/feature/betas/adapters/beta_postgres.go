// Package adapters provides repository implementations for the betas feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fundops_backend/internal/feature/betas/domain/entity"
	"fundops_backend/internal/feature/betas/usecase"
)

// InstrumentBetaModel is the GORM model for the instrument_betas table.
type InstrumentBetaModel struct {
	ID            uint            `gorm:"primaryKey"`
	ISIN          string          `gorm:"size:12;not null;uniqueIndex:idx_beta_isin_code_date,priority:1"`
	IndexCode     string          `gorm:"size:12;not null;uniqueIndex:idx_beta_isin_code_date,priority:2"`
	Beta          decimal.Decimal `gorm:"type:numeric(12,6);not null"`
	EffectiveDate time.Time       `gorm:"not null;uniqueIndex:idx_beta_isin_code_date,priority:3"`
	CreatedBy     string          `gorm:"size:255"`
	UpdatedBy     string          `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM.
func (InstrumentBetaModel) TableName() string {
	return "instrument_betas"
}

// ToEntity converts the GORM model to a domain entity.
func (m *InstrumentBetaModel) ToEntity() entity.InstrumentBeta {
	return entity.InstrumentBeta{
		ID:            m.ID,
		ISIN:          m.ISIN,
		IndexCode:     m.IndexCode,
		Beta:          m.Beta,
		EffectiveDate: m.EffectiveDate,
		CreatedBy:     m.CreatedBy,
		UpdatedBy:     m.UpdatedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// toModel converts a domain entity to the GORM model.
func toModel(e entity.InstrumentBeta) InstrumentBetaModel {
	return InstrumentBetaModel{
		ID:            e.ID,
		ISIN:          e.ISIN,
		IndexCode:     e.IndexCode,
		Beta:          e.Beta,
		EffectiveDate: e.EffectiveDate,
		CreatedBy:     e.CreatedBy,
		UpdatedBy:     e.UpdatedBy,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// betaPostgres is a PostgreSQL implementation of the InstrumentBetaRepository interface.
type betaPostgres struct {
	db *gorm.DB
}

// Compile-time check to ensure betaPostgres implements InstrumentBetaRepository.
var _ usecase.InstrumentBetaRepository = (*betaPostgres)(nil)

// NewBetaPostgres creates a new instance of betaPostgres.
func NewBetaPostgres(db *gorm.DB) *betaPostgres {
	return &betaPostgres{db: db}
}

// FindByID retrieves a beta by its primary key.
// It returns usecase.ErrBetaNotFound when no row matches.
func (r *betaPostgres) FindByID(ctx context.Context, id uint) (*entity.InstrumentBeta, error) {
	var m InstrumentBetaModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrBetaNotFound
		}
		return nil, err
	}
	e := m.ToEntity()
	return &e, nil
}

// Find returns a filtered page of betas, newest effective date first, plus the
// total match count.
func (r *betaPostgres) Find(ctx context.Context, filter usecase.Filter, offset, limit int) ([]entity.InstrumentBeta, int64, error) {
	q := r.db.WithContext(ctx).Model(&InstrumentBetaModel{})

	if filter.ISIN != "" {
		q = q.Where("isin = ?", filter.ISIN)
	}
	if filter.IndexCode != "" {
		q = q.Where("index_code = ?", filter.IndexCode)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []InstrumentBetaModel
	if err := q.Order("effective_date DESC, isin ASC, index_code ASC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	betas := make([]entity.InstrumentBeta, len(models))
	for i, m := range models {
		betas[i] = m.ToEntity()
	}
	return betas, total, nil
}

// UpsertBatch writes betas in one statement, updating the beta value and the
// updater on (isin, index_code, effective_date) conflicts. A single statement
// keeps the bulk submission all-or-nothing.
func (r *betaPostgres) UpsertBatch(ctx context.Context, betas []entity.InstrumentBeta) error {
	if len(betas) == 0 {
		return nil
	}
	ms := make([]InstrumentBetaModel, 0, len(betas))
	for _, e := range betas {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "isin"}, {Name: "index_code"}, {Name: "effective_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"beta", "updated_by", "updated_at"}),
	}).Create(&ms).Error
}

// Delete removes the given beta.
// It returns usecase.ErrBetaNotFound when no row was deleted.
func (r *betaPostgres) Delete(ctx context.Context, beta *entity.InstrumentBeta) error {
	result := r.db.WithContext(ctx).Delete(&InstrumentBetaModel{}, beta.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrBetaNotFound
	}
	return nil
}
