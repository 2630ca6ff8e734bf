// Package handler provides HTTP handlers for the betas feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fundops_backend/internal/api"
	"fundops_backend/internal/feature/betas/domain/entity"
	"fundops_backend/internal/feature/betas/transport/http/dto"
	"fundops_backend/internal/feature/betas/usecase"
	jwtmw "fundops_backend/internal/platform/jwt"
	"fundops_backend/internal/shared/datefmt"
	"fundops_backend/internal/shared/pagination"
)

// BetasUsecase defines the beta operations the handler depends on.
// Following Go convention, the interface is defined by the consumer (handler),
// not the provider (usecase).
type BetasUsecase interface {
	// List returns a filtered page of betas, newest effective date first.
	List(ctx context.Context, filter usecase.Filter, params pagination.Params) (*pagination.Page[entity.InstrumentBeta], error)
	// BulkUpsert writes the rows all-or-nothing on behalf of actor and
	// returns the number written.
	BulkUpsert(ctx context.Context, actor string, betas []entity.InstrumentBeta) (int, error)
	// Delete removes a beta on behalf of actor.
	Delete(ctx context.Context, actor string, id uint) error
}

// BetaHandler handles HTTP requests for instrument beta maintenance.
type BetaHandler struct {
	uc BetasUsecase
}

// NewBetaHandler creates a new instance of BetaHandler.
func NewBetaHandler(uc BetasUsecase) *BetaHandler {
	return &BetaHandler{uc: uc}
}

// List handles GET /betas.
// Query parameters: isin, index_code, page, page_size. A request filtered to
// one instrument defaults to the maximum page size so every beta for that
// instrument arrives in one page.
func (h *BetaHandler) List(c *gin.Context) {
	filter := usecase.Filter{
		ISIN:      c.Query("isin"),
		IndexCode: c.Query("index_code"),
	}

	params := pagination.Parse(c.Query("page"), c.Query("page_size"))
	if filter.ISIN != "" && c.Query("page_size") == "" {
		params.PageSize = pagination.MaxPageSize
	}

	page, err := h.uc.List(c.Request.Context(), filter, params)
	if err != nil {
		slog.Error("failed to list betas", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list betas"})
		return
	}

	items := make([]dto.InstrumentBetaRes, len(page.Items))
	for i, b := range page.Items {
		items[i] = toBetaRes(b)
	}
	c.JSON(http.StatusOK, pagination.Page[dto.InstrumentBetaRes]{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// Upsert handles PUT /betas.
// The submission is all-or-nothing: the first invalid row rejects the whole
// body with a 400 naming the row, and nothing is written.
func (h *BetaHandler) Upsert(c *gin.Context) {
	actor, ok := jwtmw.EmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}

	var req dto.UpsertBetasReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("beta upsert validation failed", "error", err, "actor", actor)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	betas := make([]entity.InstrumentBeta, len(req.Rows))
	for i, row := range req.Rows {
		effective, err := datefmt.ParseDate(row.EffectiveDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "row " + strconv.Itoa(i) + ": " + err.Error()})
			return
		}
		betas[i] = entity.InstrumentBeta{
			ISIN:          row.ISIN,
			IndexCode:     row.IndexCode,
			Beta:          row.Beta,
			EffectiveDate: effective,
		}
	}

	count, err := h.uc.BulkUpsert(c.Request.Context(), actor, betas)
	if err != nil {
		if isRowRejection(err) {
			slog.Warn("beta upsert rejected", "error", err, "actor", actor)
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("failed to upsert betas", "error", err, "rows", len(betas))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to upsert betas"})
		return
	}

	slog.Info("betas upserted", "rows", count, "actor", actor)
	c.JSON(http.StatusOK, api.CountResponse{Count: count})
}

// Delete handles DELETE /betas/:id.
// - 404 when the beta does not exist
// - 204 on success
func (h *BetaHandler) Delete(c *gin.Context) {
	actor, ok := jwtmw.EmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return
	}

	if err := h.uc.Delete(c.Request.Context(), actor, uint(id)); err != nil {
		if errors.Is(err, usecase.ErrBetaNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "instrument beta not found"})
			return
		}
		slog.Error("failed to delete beta", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete beta"})
		return
	}

	slog.Info("beta deleted", "id", id, "actor", actor)
	c.Status(http.StatusNoContent)
}

// isRowRejection reports whether err is one of the per-row validation
// sentinels that should surface as a 400.
func isRowRejection(err error) bool {
	return errors.Is(err, usecase.ErrInvalidISIN) ||
		errors.Is(err, usecase.ErrInvalidIndexCode) ||
		errors.Is(err, usecase.ErrBetaOutOfRange) ||
		errors.Is(err, usecase.ErrFutureDate) ||
		errors.Is(err, usecase.ErrDuplicateRow) ||
		errors.Is(err, usecase.ErrNoRows)
}

// toBetaRes maps a domain beta to its JSON shape.
func toBetaRes(b entity.InstrumentBeta) dto.InstrumentBetaRes {
	return dto.InstrumentBetaRes{
		ID:            b.ID,
		ISIN:          b.ISIN,
		IndexCode:     b.IndexCode,
		Beta:          b.Beta.String(),
		EffectiveDate: datefmt.FormatDate(b.EffectiveDate),
		CreatedBy:     b.CreatedBy,
		UpdatedBy:     b.UpdatedBy,
		CreatedAt:     b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
