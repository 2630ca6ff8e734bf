// Package adapters provides repository implementations for the marketdata feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fundops_backend/internal/feature/marketdata/domain/entity"
	"fundops_backend/internal/feature/marketdata/usecase"
	"fundops_backend/internal/shared/dberr"
)

// IndexPriceModel is the GORM model for the index_prices table.
type IndexPriceModel struct {
	ID        uint            `gorm:"primaryKey"`
	IndexCode string          `gorm:"size:12;not null;uniqueIndex:idx_price_code_date,priority:1"`
	PriceDate time.Time       `gorm:"not null;uniqueIndex:idx_price_code_date,priority:2"`
	Price     decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Currency  string          `gorm:"size:3;not null"`
	Source    string          `gorm:"size:16;not null;default:manual"`
	CreatedBy string          `gorm:"size:255"`
	UpdatedBy string          `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (IndexPriceModel) TableName() string {
	return "index_prices"
}

// ToEntity converts the GORM model to a domain entity.
func (m *IndexPriceModel) ToEntity() entity.IndexPrice {
	return entity.IndexPrice{
		ID:        m.ID,
		IndexCode: m.IndexCode,
		PriceDate: m.PriceDate,
		Price:     m.Price,
		Currency:  m.Currency,
		Source:    entity.Source(m.Source),
		CreatedBy: m.CreatedBy,
		UpdatedBy: m.UpdatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// toModel converts a domain entity to the GORM model.
func toModel(e entity.IndexPrice) IndexPriceModel {
	return IndexPriceModel{
		ID:        e.ID,
		IndexCode: e.IndexCode,
		PriceDate: e.PriceDate,
		Price:     e.Price,
		Currency:  e.Currency,
		Source:    string(e.Source),
		CreatedBy: e.CreatedBy,
		UpdatedBy: e.UpdatedBy,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// indexPricePostgres is a PostgreSQL implementation of the IndexPriceRepository interface.
type indexPricePostgres struct {
	db *gorm.DB
}

// Compile-time check to ensure indexPricePostgres implements IndexPriceRepository.
var _ usecase.IndexPriceRepository = (*indexPricePostgres)(nil)

// NewIndexPricePostgres creates a new instance of indexPricePostgres.
func NewIndexPricePostgres(db *gorm.DB) *indexPricePostgres {
	return &indexPricePostgres{db: db}
}

// Create persists a new index price.
// It returns usecase.ErrDuplicateIndexPrice when the (code, date) pair exists.
func (r *indexPricePostgres) Create(ctx context.Context, price *entity.IndexPrice) error {
	m := toModel(*price)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if dberr.IsDuplicate(err) {
			return usecase.ErrDuplicateIndexPrice
		}
		return err
	}
	price.ID = m.ID
	price.CreatedAt = m.CreatedAt
	price.UpdatedAt = m.UpdatedAt
	return nil
}

// FindByID retrieves an index price by its primary key.
// It returns usecase.ErrIndexPriceNotFound when no row matches.
func (r *indexPricePostgres) FindByID(ctx context.Context, id uint) (*entity.IndexPrice, error) {
	var m IndexPriceModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrIndexPriceNotFound
		}
		return nil, err
	}
	e := m.ToEntity()
	return &e, nil
}

// Find returns a filtered page of index prices, newest date first, plus the
// total match count.
func (r *indexPricePostgres) Find(ctx context.Context, filter usecase.Filter, offset, limit int) ([]entity.IndexPrice, int64, error) {
	q := r.db.WithContext(ctx).Model(&IndexPriceModel{})

	if filter.IndexCode != "" {
		q = q.Where("index_code = ?", filter.IndexCode)
	}
	if !filter.From.IsZero() {
		q = q.Where("price_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("price_date <= ?", filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []IndexPriceModel
	if err := q.Order("price_date DESC, index_code ASC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	prices := make([]entity.IndexPrice, len(models))
	for i, m := range models {
		prices[i] = m.ToEntity()
	}
	return prices, total, nil
}

// Update saves the full index price row identified by the entity's primary key.
func (r *indexPricePostgres) Update(ctx context.Context, price *entity.IndexPrice) error {
	m := toModel(*price)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return err
	}
	price.UpdatedAt = m.UpdatedAt
	return nil
}

// Delete removes the given index price.
// It returns usecase.ErrIndexPriceNotFound when no row was deleted.
func (r *indexPricePostgres) Delete(ctx context.Context, price *entity.IndexPrice) error {
	result := r.db.WithContext(ctx).Delete(&IndexPriceModel{}, price.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrIndexPriceNotFound
	}
	return nil
}

// UpsertBatch inserts prices, updating price, currency, source, and the
// updater on (index_code, price_date) conflicts.
func (r *indexPricePostgres) UpsertBatch(ctx context.Context, prices []entity.IndexPrice) error {
	if len(prices) == 0 {
		return nil
	}
	ms := make([]IndexPriceModel, 0, len(prices))
	for _, e := range prices {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "index_code"}, {Name: "price_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "currency", "source", "updated_by", "updated_at"}),
	}).Create(&ms).Error
}
