// Package usecase implements the audit feature's application logic.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"fundops_backend/internal/feature/audit/domain/entity"
	"fundops_backend/internal/shared/pagination"
)

// Filter narrows an audit trail listing. Zero values match everything.
type Filter struct {
	Actor      string    // exact actor email
	EntityType string    // exact entity type
	From       time.Time // inclusive lower bound on CreatedAt
	To         time.Time // inclusive upper bound on CreatedAt
}

// AuditRepository abstracts persistence for audit records.
// Following Go convention, the interface is defined by the consumer (usecase).
type AuditRepository interface {
	Create(ctx context.Context, record *entity.AuditRecord) error
	Find(ctx context.Context, filter Filter, offset, limit int) ([]entity.AuditRecord, int64, error)
}

// AuditUsecase records and lists audit trail entries.
type AuditUsecase struct {
	repo AuditRepository
}

// NewAuditUsecase creates a new instance of AuditUsecase.
func NewAuditUsecase(repo AuditRepository) *AuditUsecase {
	return &AuditUsecase{repo: repo}
}

// Record appends an audit entry. Recording is best effort: a storage failure
// is logged and swallowed so the audited operation itself never fails.
func (u *AuditUsecase) Record(ctx context.Context, actor, action, entityType, entityID, detail string) {
	record := &entity.AuditRecord{
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := u.repo.Create(ctx, record); err != nil {
		slog.Error("failed to record audit entry",
			"error", err,
			"actor", actor,
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
		)
	}
}

// List returns a page of audit records, newest first.
func (u *AuditUsecase) List(ctx context.Context, filter Filter, params pagination.Params) (*pagination.Page[entity.AuditRecord], error) {
	records, total, err := u.repo.Find(ctx, filter, params.Offset(), params.PageSize)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(records, total, params), nil
}
