// Package adapters provides repository and storage implementations for the reports feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fundops_backend/internal/feature/reports/domain/entity"
	"fundops_backend/internal/feature/reports/usecase"
)

// ReportBatchModel is the GORM model for the report_batches table.
type ReportBatchModel struct {
	ID           string    `gorm:"primaryKey;size:36"`
	FileName     string    `gorm:"size:64;not null"`
	OriginalName string    `gorm:"size:255;not null"`
	Kind         string    `gorm:"size:16;not null;index"`
	BusinessDate time.Time `gorm:"not null;index"`
	Status       string    `gorm:"size:16;not null;index"`
	RowCount     int       `gorm:"not null;default:0"`
	ErrorCount   int       `gorm:"not null;default:0"`
	Error        string    `gorm:"size:1024"`
	SizeBytes    int64     `gorm:"not null;default:0"`
	UploadedBy   string    `gorm:"size:255"`
	ProcessedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM.
func (ReportBatchModel) TableName() string {
	return "report_batches"
}

// ToEntity converts the GORM model to a domain entity.
func (m *ReportBatchModel) ToEntity() entity.ReportBatch {
	return entity.ReportBatch{
		ID:           m.ID,
		FileName:     m.FileName,
		OriginalName: m.OriginalName,
		Kind:         entity.Kind(m.Kind),
		BusinessDate: m.BusinessDate,
		Status:       entity.Status(m.Status),
		RowCount:     m.RowCount,
		ErrorCount:   m.ErrorCount,
		Error:        m.Error,
		SizeBytes:    m.SizeBytes,
		UploadedBy:   m.UploadedBy,
		ProcessedAt:  m.ProcessedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// toModel converts a domain entity to the GORM model.
func toModel(e entity.ReportBatch) ReportBatchModel {
	return ReportBatchModel{
		ID:           e.ID,
		FileName:     e.FileName,
		OriginalName: e.OriginalName,
		Kind:         string(e.Kind),
		BusinessDate: e.BusinessDate,
		Status:       string(e.Status),
		RowCount:     e.RowCount,
		ErrorCount:   e.ErrorCount,
		Error:        e.Error,
		SizeBytes:    e.SizeBytes,
		UploadedBy:   e.UploadedBy,
		ProcessedAt:  e.ProcessedAt,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// reportPostgres is a PostgreSQL implementation of the ReportBatchRepository interface.
type reportPostgres struct {
	db *gorm.DB
}

// Compile-time check to ensure reportPostgres implements ReportBatchRepository.
var _ usecase.ReportBatchRepository = (*reportPostgres)(nil)

// NewReportPostgres creates a new instance of reportPostgres.
func NewReportPostgres(db *gorm.DB) *reportPostgres {
	return &reportPostgres{db: db}
}

// Create persists a new batch.
func (r *reportPostgres) Create(ctx context.Context, batch *entity.ReportBatch) error {
	m := toModel(*batch)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	batch.CreatedAt = m.CreatedAt
	batch.UpdatedAt = m.UpdatedAt
	return nil
}

// FindByID retrieves a batch by its UUID.
// It returns usecase.ErrBatchNotFound when no row matches.
func (r *reportPostgres) FindByID(ctx context.Context, id string) (*entity.ReportBatch, error) {
	var m ReportBatchModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrBatchNotFound
		}
		return nil, err
	}
	e := m.ToEntity()
	return &e, nil
}

// Find returns a filtered page of batches, newest upload first, plus the
// total match count.
func (r *reportPostgres) Find(ctx context.Context, filter usecase.Filter, offset, limit int) ([]entity.ReportBatch, int64, error) {
	q := r.db.WithContext(ctx).Model(&ReportBatchModel{})

	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", string(filter.Kind))
	}
	if !filter.From.IsZero() {
		q = q.Where("business_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("business_date <= ?", filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []ReportBatchModel
	if err := q.Order("created_at DESC, id ASC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	batches := make([]entity.ReportBatch, len(models))
	for i, m := range models {
		batches[i] = m.ToEntity()
	}
	return batches, total, nil
}

// Update saves the full batch row identified by the entity's primary key.
func (r *reportPostgres) Update(ctx context.Context, batch *entity.ReportBatch) error {
	m := toModel(*batch)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return err
	}
	batch.UpdatedAt = m.UpdatedAt
	return nil
}

// Delete removes the given batch.
// It returns usecase.ErrBatchNotFound when no row was deleted.
func (r *reportPostgres) Delete(ctx context.Context, batch *entity.ReportBatch) error {
	result := r.db.WithContext(ctx).Where("id = ?", batch.ID).Delete(&ReportBatchModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrBatchNotFound
	}
	return nil
}

// ClaimPending flips up to limit pending batches, oldest first, to
// processing. Each flip is guarded by the status in the WHERE clause, so a
// batch a concurrent sweep took in the meantime is skipped rather than
// processed twice.
func (r *reportPostgres) ClaimPending(ctx context.Context, limit int) ([]entity.ReportBatch, error) {
	var candidates []ReportBatchModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(entity.StatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	claimed := make([]entity.ReportBatch, 0, len(candidates))
	for _, m := range candidates {
		result := r.db.WithContext(ctx).Model(&ReportBatchModel{}).
			Where("id = ? AND status = ?", m.ID, string(entity.StatusPending)).
			Update("status", string(entity.StatusProcessing))
		if result.Error != nil {
			return claimed, result.Error
		}
		if result.RowsAffected == 0 {
			continue
		}
		m.Status = string(entity.StatusProcessing)
		claimed = append(claimed, m.ToEntity())
	}
	return claimed, nil
}

// ResetStale hands batches stuck in processing since before cutoff back to
// the queue.
func (r *reportPostgres) ResetStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&ReportBatchModel{}).
		Where("status = ? AND updated_at < ?", string(entity.StatusProcessing), cutoff).
		Update("status", string(entity.StatusPending))
	return result.RowsAffected, result.Error
}
