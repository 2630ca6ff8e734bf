// Package adapters provides repository implementations for the instruments feature.
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"fundops_backend/internal/feature/instruments/domain/entity"
	"fundops_backend/internal/feature/instruments/usecase"
	"fundops_backend/internal/shared/dberr"
)

// InstrumentModel is the GORM model for the instruments table.
type InstrumentModel struct {
	ID        uint   `gorm:"primaryKey"`
	ISIN      string `gorm:"size:12;not null;uniqueIndex"`
	Name      string `gorm:"size:255;not null"`
	Symbol    string `gorm:"size:32"`
	Type      string `gorm:"size:16;not null"`
	Currency  string `gorm:"size:3;not null"`
	Exchange  string `gorm:"size:32"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedBy string `gorm:"size:255"`
	UpdatedBy string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (InstrumentModel) TableName() string {
	return "instruments"
}

// ToEntity converts the GORM model to a domain entity.
func (m *InstrumentModel) ToEntity() entity.Instrument {
	return entity.Instrument{
		ID:        m.ID,
		ISIN:      m.ISIN,
		Name:      m.Name,
		Symbol:    m.Symbol,
		Type:      entity.Type(m.Type),
		Currency:  m.Currency,
		Exchange:  m.Exchange,
		Active:    m.Active,
		CreatedBy: m.CreatedBy,
		UpdatedBy: m.UpdatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// toModel converts a domain entity to the GORM model.
func toModel(e entity.Instrument) InstrumentModel {
	return InstrumentModel{
		ID:        e.ID,
		ISIN:      e.ISIN,
		Name:      e.Name,
		Symbol:    e.Symbol,
		Type:      string(e.Type),
		Currency:  e.Currency,
		Exchange:  e.Exchange,
		Active:    e.Active,
		CreatedBy: e.CreatedBy,
		UpdatedBy: e.UpdatedBy,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// instrumentPostgres is a PostgreSQL implementation of the InstrumentRepository interface.
type instrumentPostgres struct {
	db *gorm.DB
}

// Compile-time check to ensure instrumentPostgres implements InstrumentRepository.
var _ usecase.InstrumentRepository = (*instrumentPostgres)(nil)

// NewInstrumentPostgres creates a new instance of instrumentPostgres.
func NewInstrumentPostgres(db *gorm.DB) *instrumentPostgres {
	return &instrumentPostgres{db: db}
}

// Create persists a new instrument.
// It returns usecase.ErrInstrumentAlreadyExists when the ISIN is already registered.
func (r *instrumentPostgres) Create(ctx context.Context, inst *entity.Instrument) error {
	m := toModel(*inst)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if dberr.IsDuplicate(err) {
			return usecase.ErrInstrumentAlreadyExists
		}
		return err
	}
	inst.ID = m.ID
	inst.CreatedAt = m.CreatedAt
	inst.UpdatedAt = m.UpdatedAt
	return nil
}

// FindByISIN retrieves an instrument by its ISIN.
// It returns usecase.ErrInstrumentNotFound when no instrument matches.
func (r *instrumentPostgres) FindByISIN(ctx context.Context, isin string) (*entity.Instrument, error) {
	var m InstrumentModel
	if err := r.db.WithContext(ctx).Where("isin = ?", isin).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrInstrumentNotFound
		}
		return nil, err
	}
	e := m.ToEntity()
	return &e, nil
}

// Find returns a filtered page of instruments ordered by ISIN, plus the total
// match count.
func (r *instrumentPostgres) Find(ctx context.Context, filter usecase.Filter, offset, limit int) ([]entity.Instrument, int64, error) {
	q := r.db.WithContext(ctx).Model(&InstrumentModel{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(isin) LIKE ? OR LOWER(name) LIKE ? OR LOWER(symbol) LIKE ?", pattern, pattern, pattern)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", string(filter.Type))
	}
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []InstrumentModel
	if err := q.Order("isin ASC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	instruments := make([]entity.Instrument, len(models))
	for i, m := range models {
		instruments[i] = m.ToEntity()
	}
	return instruments, total, nil
}

// Update saves the full instrument row identified by the entity's primary key.
func (r *instrumentPostgres) Update(ctx context.Context, inst *entity.Instrument) error {
	m := toModel(*inst)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return err
	}
	inst.UpdatedAt = m.UpdatedAt
	return nil
}

// DeleteByISIN removes the instrument with the given ISIN.
// It returns usecase.ErrInstrumentNotFound when no row was deleted.
func (r *instrumentPostgres) DeleteByISIN(ctx context.Context, isin string) error {
	result := r.db.WithContext(ctx).Where("isin = ?", isin).Delete(&InstrumentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrInstrumentNotFound
	}
	return nil
}

// ExistsByISIN reports whether an instrument with the given ISIN is registered.
// The holdings feature uses it to reject holdings on unknown instruments.
func (r *instrumentPostgres) ExistsByISIN(ctx context.Context, isin string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&InstrumentModel{}).Where("isin = ?", isin).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
