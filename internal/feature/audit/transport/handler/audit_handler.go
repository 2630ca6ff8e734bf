// Package handler provides HTTP handlers for the audit feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fundops_backend/internal/api"
	"fundops_backend/internal/feature/audit/domain/entity"
	"fundops_backend/internal/feature/audit/transport/http/dto"
	"fundops_backend/internal/feature/audit/usecase"
	"fundops_backend/internal/shared/datefmt"
	"fundops_backend/internal/shared/pagination"
)

// AuditUsecase defines the audit operations the handler depends on.
type AuditUsecase interface {
	List(ctx context.Context, filter usecase.Filter, params pagination.Params) (*pagination.Page[entity.AuditRecord], error)
}

// AuditHandler handles HTTP requests for the audit trail.
type AuditHandler struct {
	uc AuditUsecase
}

// NewAuditHandler creates a new instance of AuditHandler.
func NewAuditHandler(uc AuditUsecase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List returns a page of audit records, newest first.
//
// Example endpoint:
// GET /audit?actor=ops@example.com&entity_type=instrument&from=2026-01-01&page=1&page_size=25
func (h *AuditHandler) List(c *gin.Context) {
	params := pagination.Parse(c.Query("page"), c.Query("page_size"))
	filter := usecase.Filter{
		Actor:      c.Query("actor"),
		EntityType: c.Query("entity_type"),
	}

	if v := c.Query("from"); v != "" {
		t, err := datefmt.ParseTime(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		filter.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := datefmt.ParseTime(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		filter.To = t
	}

	page, err := h.uc.List(c.Request.Context(), filter, params)
	if err != nil {
		slog.Error("failed to list audit records", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list audit records"})
		return
	}

	out := make([]dto.AuditRecordRes, 0, len(page.Items))
	for _, r := range page.Items {
		out = append(out, dto.AuditRecordRes{
			ID:         r.ID,
			Actor:      r.Actor,
			Action:     r.Action,
			EntityType: r.EntityType,
			EntityID:   r.EntityID,
			Detail:     r.Detail,
			CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, pagination.Page[dto.AuditRecordRes]{
		Items:    out,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}
