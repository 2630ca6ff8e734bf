// Package adapters provides repository implementations for the audit feature.
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fundops_backend/internal/feature/audit/domain/entity"
	"fundops_backend/internal/feature/audit/usecase"
)

// AuditRecordModel is the GORM model for the audit_records table.
type AuditRecordModel struct {
	ID         uint      `gorm:"primaryKey"`
	Actor      string    `gorm:"size:255;index"`
	Action     string    `gorm:"size:32;not null"`
	EntityType string    `gorm:"size:64;index"`
	EntityID   string    `gorm:"size:128"`
	Detail     string    `gorm:"size:1024"`
	CreatedAt  time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (AuditRecordModel) TableName() string {
	return "audit_records"
}

// ToEntity converts the GORM model to a domain entity.
func (m *AuditRecordModel) ToEntity() entity.AuditRecord {
	return entity.AuditRecord{
		ID:         m.ID,
		Actor:      m.Actor,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Detail:     m.Detail,
		CreatedAt:  m.CreatedAt,
	}
}

// auditPostgres is a PostgreSQL implementation of the AuditRepository interface.
type auditPostgres struct {
	db *gorm.DB
}

// Compile-time check to ensure auditPostgres implements AuditRepository.
var _ usecase.AuditRepository = (*auditPostgres)(nil)

// NewAuditPostgres creates a new instance of auditPostgres.
func NewAuditPostgres(db *gorm.DB) *auditPostgres {
	return &auditPostgres{db: db}
}

// Create appends an audit record.
func (r *auditPostgres) Create(ctx context.Context, record *entity.AuditRecord) error {
	model := AuditRecordModel{
		Actor:      record.Actor,
		Action:     record.Action,
		EntityType: record.EntityType,
		EntityID:   record.EntityID,
		Detail:     record.Detail,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	record.ID = model.ID
	record.CreatedAt = model.CreatedAt
	return nil
}

// Find returns a page of matching records, newest first, plus the total count.
func (r *auditPostgres) Find(ctx context.Context, filter usecase.Filter, offset, limit int) ([]entity.AuditRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&AuditRecordModel{})

	if filter.Actor != "" {
		q = q.Where("actor = ?", filter.Actor)
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at <= ?", filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []AuditRecordModel
	if err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	records := make([]entity.AuditRecord, len(models))
	for i, m := range models {
		records[i] = m.ToEntity()
	}
	return records, total, nil
}
