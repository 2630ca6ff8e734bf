// Package handler provides HTTP handlers for the holdings feature.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fundops_backend/internal/api"
	"fundops_backend/internal/feature/holdings/domain/entity"
	"fundops_backend/internal/feature/holdings/transport/http/dto"
	"fundops_backend/internal/feature/holdings/usecase"
	jwtmw "fundops_backend/internal/platform/jwt"
	"fundops_backend/internal/shared/datefmt"
	"fundops_backend/internal/shared/pagination"
)

// HoldingsUsecase defines the holding operations the handler depends on.
// Following Go convention, the interface is defined by the consumer (handler),
// not the provider (usecase).
type HoldingsUsecase interface {
	// Create validates and registers a new holding on behalf of actor.
	Create(ctx context.Context, actor string, holding entity.CustomHolding) (*entity.CustomHolding, error)
	// GetByID retrieves a single holding.
	GetByID(ctx context.Context, id uint) (*entity.CustomHolding, error)
	// List returns a filtered page of holdings.
	List(ctx context.Context, filter usecase.Filter, params pagination.Params) (*pagination.Page[entity.CustomHolding], error)
	// Update replaces the mutable fields of a holding on behalf of actor.
	Update(ctx context.Context, actor string, id uint, upd entity.CustomHolding) (*entity.CustomHolding, error)
	// Delete removes a holding on behalf of actor.
	Delete(ctx context.Context, actor string, id uint) error
	// ImportCSV ingests a holdings file all-or-nothing on behalf of actor
	// and returns the number of rows written.
	ImportCSV(ctx context.Context, actor string, r io.Reader) (int, error)
}

// HoldingHandler handles HTTP requests for custom holding maintenance.
type HoldingHandler struct {
	uc             HoldingsUsecase
	maxUploadBytes int64
}

// NewHoldingHandler creates a new instance of HoldingHandler.
// maxUploadBytes caps import file sizes; zero disables the cap.
func NewHoldingHandler(uc HoldingsUsecase, maxUploadBytes int64) *HoldingHandler {
	return &HoldingHandler{uc: uc, maxUploadBytes: maxUploadBytes}
}

// List handles GET /holdings.
// Query parameters: portfolio_code, isin, from, to (YYYY-MM-DD), page, page_size.
func (h *HoldingHandler) List(c *gin.Context) {
	filter := usecase.Filter{
		PortfolioCode: c.Query("portfolio_code"),
		ISIN:          c.Query("isin"),
	}

	if raw := c.Query("from"); raw != "" {
		from, err := datefmt.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		filter.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := datefmt.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		filter.To = to
	}

	params := pagination.Parse(c.Query("page"), c.Query("page_size"))
	page, err := h.uc.List(c.Request.Context(), filter, params)
	if err != nil {
		slog.Error("failed to list holdings", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list holdings"})
		return
	}

	items := make([]dto.CustomHoldingRes, len(page.Items))
	for i, holding := range page.Items {
		items[i] = toHoldingRes(holding)
	}
	c.JSON(http.StatusOK, pagination.Page[dto.CustomHoldingRes]{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// Get handles GET /holdings/:id.
func (h *HoldingHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return
	}

	holding, err := h.uc.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, usecase.ErrHoldingNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "holding not found"})
			return
		}
		slog.Error("failed to get holding", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to get holding"})
		return
	}
	c.JSON(http.StatusOK, toHoldingRes(*holding))
}

// Create handles POST /holdings.
// - 400 when the body fails validation or the ISIN is not a known instrument
// - 409 when the (portfolio_code, isin, effective_date) key is already stored
// - 201 with the stored holding on success
func (h *HoldingHandler) Create(c *gin.Context) {
	actor, ok := jwtmw.EmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}

	var req dto.CreateHoldingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("holding create validation failed", "error", err, "actor", actor)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	effective, err := datefmt.ParseDate(req.EffectiveDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	holding, err := h.uc.Create(c.Request.Context(), actor, entity.CustomHolding{
		PortfolioCode: req.PortfolioCode,
		ISIN:          req.ISIN,
		Quantity:      req.Quantity,
		MarketValue:   req.MarketValue,
		Currency:      req.Currency,
		EffectiveDate: effective,
		Note:          req.Note,
	})
	if err != nil {
		switch {
		case isFieldRejection(err):
			slog.Warn("holding create rejected", "error", err, "actor", actor)
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrHoldingAlreadyExists):
			slog.Warn("holding create conflict", "isin", req.ISIN, "portfolio", req.PortfolioCode, "actor", actor)
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to create holding", "error", err, "isin", req.ISIN)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create holding"})
		}
		return
	}

	slog.Info("holding created", "portfolio", holding.PortfolioCode, "isin", holding.ISIN, "actor", actor)
	c.JSON(http.StatusCreated, toHoldingRes(*holding))
}

// Update handles PUT /holdings/:id.
// - 400 when the body fails validation
// - 404 when the holding does not exist
// - 200 with the stored holding on success
func (h *HoldingHandler) Update(c *gin.Context) {
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

	var req dto.UpdateHoldingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("holding update validation failed", "error", err, "actor", actor)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	holding, err := h.uc.Update(c.Request.Context(), actor, uint(id), entity.CustomHolding{
		Quantity:    req.Quantity,
		MarketValue: req.MarketValue,
		Currency:    req.Currency,
		Note:        req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrHoldingNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "holding not found"})
		case isFieldRejection(err):
			slog.Warn("holding update rejected", "error", err, "actor", actor, "id", id)
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrHoldingAlreadyExists):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to update holding", "error", err, "id", id)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update holding"})
		}
		return
	}

	slog.Info("holding updated", "id", holding.ID, "actor", actor)
	c.JSON(http.StatusOK, toHoldingRes(*holding))
}

// Delete handles DELETE /holdings/:id.
// - 404 when the holding does not exist
// - 204 on success
func (h *HoldingHandler) Delete(c *gin.Context) {
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
		if errors.Is(err, usecase.ErrHoldingNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "holding not found"})
			return
		}
		slog.Error("failed to delete holding", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete holding"})
		return
	}

	slog.Info("holding deleted", "id", id, "actor", actor)
	c.Status(http.StatusNoContent)
}

// Import handles POST /holdings/import.
// The file field of the multipart body carries the csv. The import is
// all-or-nothing: the first invalid line rejects the whole file with a 400
// naming the line, and nothing is written.
// - 413 when the file exceeds the upload size limit
// - 201 with the imported row count on success
func (h *HoldingHandler) Import(c *gin.Context) {
	actor, ok := jwtmw.EmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		slog.Warn("holdings import missing file", "error", err, "actor", actor)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "multipart field \"file\" is required"})
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		slog.Warn("holdings import too large", "size", fileHeader.Size, "limit", h.maxUploadBytes, "actor", actor)
		c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: "file exceeds the upload size limit"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		slog.Error("failed to open holdings upload", "error", err, "file", fileHeader.Filename)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read upload"})
		return
	}
	defer f.Close()

	count, err := h.uc.ImportCSV(c.Request.Context(), actor, f)
	if err != nil {
		if isImportRejection(err) {
			slog.Warn("holdings import rejected", "error", err, "actor", actor, "file", fileHeader.Filename)
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("failed to import holdings", "error", err, "file", fileHeader.Filename)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to import holdings"})
		return
	}

	slog.Info("holdings imported", "rows", count, "actor", actor, "file", fileHeader.Filename)
	c.JSON(http.StatusCreated, api.CountResponse{Count: count})
}

// isFieldRejection reports whether err is one of the field validation
// sentinels that should surface as a 400.
func isFieldRejection(err error) bool {
	return errors.Is(err, usecase.ErrInvalidPortfolioCode) ||
		errors.Is(err, usecase.ErrInvalidISIN) ||
		errors.Is(err, usecase.ErrUnknownInstrument) ||
		errors.Is(err, usecase.ErrZeroQuantity) ||
		errors.Is(err, usecase.ErrNegativeMarketValue) ||
		errors.Is(err, usecase.ErrInvalidCurrency) ||
		errors.Is(err, usecase.ErrFutureDate) ||
		errors.Is(err, usecase.ErrNoteTooLong)
}

// isImportRejection reports whether err marks a client-caused import failure.
func isImportRejection(err error) bool {
	return isFieldRejection(err) ||
		errors.Is(err, usecase.ErrEmptyFile) ||
		errors.Is(err, usecase.ErrMissingColumn) ||
		errors.Is(err, usecase.ErrMalformedRow) ||
		errors.Is(err, usecase.ErrDuplicateRow)
}

// toHoldingRes maps a domain holding to its JSON shape.
func toHoldingRes(h entity.CustomHolding) dto.CustomHoldingRes {
	return dto.CustomHoldingRes{
		ID:            h.ID,
		PortfolioCode: h.PortfolioCode,
		ISIN:          h.ISIN,
		Quantity:      h.Quantity.String(),
		MarketValue:   h.MarketValue.String(),
		Currency:      h.Currency,
		EffectiveDate: datefmt.FormatDate(h.EffectiveDate),
		Note:          h.Note,
		CreatedBy:     h.CreatedBy,
		UpdatedBy:     h.UpdatedBy,
		CreatedAt:     h.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     h.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
