// Package handler provides HTTP handlers for the marketdata feature.
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
	"fundops_backend/internal/feature/marketdata/domain/entity"
	"fundops_backend/internal/feature/marketdata/transport/http/dto"
	"fundops_backend/internal/feature/marketdata/usecase"
	jwtmw "fundops_backend/internal/platform/jwt"
	"fundops_backend/internal/shared/datefmt"
	"fundops_backend/internal/shared/pagination"
)

// IndexPricesUsecase defines the index price operations the handler depends on.
// Following Go convention, the interface is defined by the consumer (handler),
// not the provider (usecase).
type IndexPricesUsecase interface {
	// Create validates and records a manual price observation on behalf of actor.
	Create(ctx context.Context, actor string, price entity.IndexPrice) (*entity.IndexPrice, error)
	// GetByID retrieves a single price observation.
	GetByID(ctx context.Context, id uint) (*entity.IndexPrice, error)
	// List returns a filtered page of price observations, newest date first.
	List(ctx context.Context, filter usecase.Filter, params pagination.Params) (*pagination.Page[entity.IndexPrice], error)
	// Update replaces the mutable fields of a price observation on behalf of actor.
	Update(ctx context.Context, actor string, id uint, upd entity.IndexPrice) (*entity.IndexPrice, error)
	// Delete removes a price observation on behalf of actor.
	Delete(ctx context.Context, actor string, id uint) error
}

// IndexPriceHandler handles HTTP requests for index price maintenance.
type IndexPriceHandler struct {
	uc IndexPricesUsecase
}

// NewIndexPriceHandler creates a new instance of IndexPriceHandler.
func NewIndexPriceHandler(uc IndexPricesUsecase) *IndexPriceHandler {
	return &IndexPriceHandler{uc: uc}
}

// idParam parses the :id path segment, answering 400 on garbage.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// List handles GET /index-prices.
// Query parameters: index_code, from, to (YYYY-MM-DD), page, page_size.
func (h *IndexPriceHandler) List(c *gin.Context) {
	filter := usecase.Filter{IndexCode: c.Query("index_code")}

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
		slog.Error("failed to list index prices", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list index prices"})
		return
	}

	items := make([]dto.IndexPriceRes, len(page.Items))
	for i, p := range page.Items {
		items[i] = toIndexPriceRes(p)
	}
	c.JSON(http.StatusOK, pagination.Page[dto.IndexPriceRes]{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// Get handles GET /index-prices/:id.
func (h *IndexPriceHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	price, err := h.uc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrIndexPriceNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "index price not found"})
			return
		}
		slog.Error("failed to get index price", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to get index price"})
		return
	}
	c.JSON(http.StatusOK, toIndexPriceRes(*price))
}

// Create handles POST /index-prices.
// - 400 when the body, code shape, price, or date fail validation
// - 409 when a price already exists for the code and date
// - 201 with the stored observation on success
func (h *IndexPriceHandler) Create(c *gin.Context) {
	actor, ok := jwtmw.EmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}

	var req dto.CreateIndexPriceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("index price create validation failed", "error", err, "actor", actor)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	priceDate, err := datefmt.ParseDate(req.PriceDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	price, err := h.uc.Create(c.Request.Context(), actor, entity.IndexPrice{
		IndexCode: req.IndexCode,
		PriceDate: priceDate,
		Price:     req.Price,
		Currency:  req.Currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidIndexCode),
			errors.Is(err, usecase.ErrNonPositivePrice),
			errors.Is(err, usecase.ErrFutureDate):
			slog.Warn("index price create rejected", "error", err, "actor", actor)
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrDuplicateIndexPrice):
			slog.Warn("index price create conflict", "index_code", req.IndexCode, "price_date", req.PriceDate, "actor", actor)
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to create index price", "error", err, "index_code", req.IndexCode)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create index price"})
		}
		return
	}

	slog.Info("index price created", "index_code", price.IndexCode, "price_date", datefmt.FormatDate(price.PriceDate), "actor", actor)
	c.JSON(http.StatusCreated, toIndexPriceRes(*price))
}

// Update handles PUT /index-prices/:id.
// Price and currency are mutable; restating the stored code or date is
// accepted, changing them is a 400.
func (h *IndexPriceHandler) Update(c *gin.Context) {
	actor, ok := jwtmw.EmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.UpdateIndexPriceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("index price update validation failed", "error", err, "actor", actor)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	upd := entity.IndexPrice{
		IndexCode: req.IndexCode,
		Price:     req.Price,
		Currency:  req.Currency,
	}
	if req.PriceDate != "" {
		priceDate, err := datefmt.ParseDate(req.PriceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		upd.PriceDate = priceDate
	}

	price, err := h.uc.Update(c.Request.Context(), actor, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrIndexPriceNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "index price not found"})
		case errors.Is(err, usecase.ErrNonPositivePrice), errors.Is(err, usecase.ErrImmutableField):
			slog.Warn("index price update rejected", "error", err, "id", id, "actor", actor)
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to update index price", "error", err, "id", id)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update index price"})
		}
		return
	}

	slog.Info("index price updated", "id", id, "index_code", price.IndexCode, "actor", actor)
	c.JSON(http.StatusOK, toIndexPriceRes(*price))
}

// Delete handles DELETE /index-prices/:id.
// - 404 when the observation does not exist
// - 204 on success
func (h *IndexPriceHandler) Delete(c *gin.Context) {
	actor, ok := jwtmw.EmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), actor, id); err != nil {
		if errors.Is(err, usecase.ErrIndexPriceNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "index price not found"})
			return
		}
		slog.Error("failed to delete index price", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete index price"})
		return
	}

	slog.Info("index price deleted", "id", id, "actor", actor)
	c.Status(http.StatusNoContent)
}

// toIndexPriceRes maps a domain price to its JSON shape.
func toIndexPriceRes(p entity.IndexPrice) dto.IndexPriceRes {
	return dto.IndexPriceRes{
		ID:        p.ID,
		IndexCode: p.IndexCode,
		PriceDate: datefmt.FormatDate(p.PriceDate),
		Price:     p.Price.String(),
		Currency:  p.Currency,
		Source:    p.Source.String(),
		CreatedBy: p.CreatedBy,
		UpdatedBy: p.UpdatedBy,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
