// Package handler provides HTTP handlers for the instruments feature.
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
	"fundops_backend/internal/feature/instruments/domain/entity"
	"fundops_backend/internal/feature/instruments/transport/http/dto"
	"fundops_backend/internal/feature/instruments/usecase"
	jwtmw "fundops_backend/internal/platform/jwt"
	"fundops_backend/internal/shared/pagination"
)

// InstrumentsUsecase defines the instrument operations the handler depends on.
// Following Go convention, the interface is defined by the consumer (handler),
// not the provider (usecase).
type InstrumentsUsecase interface {
	// Create validates and registers a new instrument on behalf of actor.
	Create(ctx context.Context, actor string, inst entity.Instrument) (*entity.Instrument, error)
	// GetByISIN retrieves a single instrument.
	GetByISIN(ctx context.Context, isin string) (*entity.Instrument, error)
	// List returns a filtered page of instruments.
	List(ctx context.Context, filter usecase.Filter, params pagination.Params) (*pagination.Page[entity.Instrument], error)
	// Update replaces the mutable fields of an instrument on behalf of actor.
	Update(ctx context.Context, actor, isin string, upd entity.Instrument) (*entity.Instrument, error)
	// Delete removes an instrument on behalf of actor.
	Delete(ctx context.Context, actor, isin string) error
}

// InstrumentHandler handles HTTP requests for instrument static data.
type InstrumentHandler struct {
	uc InstrumentsUsecase
}

// NewInstrumentHandler creates a new instance of InstrumentHandler.
func NewInstrumentHandler(uc InstrumentsUsecase) *InstrumentHandler {
	return &InstrumentHandler{uc: uc}
}

// List handles GET /instruments.
// Query parameters: q (substring search), type, active, page, page_size.
func (h *InstrumentHandler) List(c *gin.Context) {
	filter := usecase.Filter{Search: c.Query("q")}

	if raw := c.Query("type"); raw != "" {
		typ, ok := entity.ParseType(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "unknown instrument type"})
			return
		}
		filter.Type = typ
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid active filter"})
			return
		}
		filter.Active = &active
	}

	params := pagination.Parse(c.Query("page"), c.Query("page_size"))
	page, err := h.uc.List(c.Request.Context(), filter, params)
	if err != nil {
		slog.Error("failed to list instruments", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list instruments"})
		return
	}

	items := make([]dto.InstrumentRes, len(page.Items))
	for i, inst := range page.Items {
		items[i] = toInstrumentRes(inst)
	}
	c.JSON(http.StatusOK, pagination.Page[dto.InstrumentRes]{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// Get handles GET /instruments/:isin.
func (h *InstrumentHandler) Get(c *gin.Context) {
	inst, err := h.uc.GetByISIN(c.Request.Context(), c.Param("isin"))
	if err != nil {
		if errors.Is(err, usecase.ErrInstrumentNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "instrument not found"})
			return
		}
		slog.Error("failed to get instrument", "error", err, "isin", c.Param("isin"))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to get instrument"})
		return
	}
	c.JSON(http.StatusOK, toInstrumentRes(*inst))
}

// Create handles POST /instruments.
// - 400 when the body fails validation
// - 409 when the ISIN is already registered
// - 201 with the stored instrument on success
func (h *InstrumentHandler) Create(c *gin.Context) {
	actor, ok := jwtmw.EmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}

	var req dto.CreateInstrumentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("instrument create validation failed", "error", err, "actor", actor)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	inst, err := h.uc.Create(c.Request.Context(), actor, entity.Instrument{
		ISIN:     req.ISIN,
		Name:     req.Name,
		Symbol:   req.Symbol,
		Type:     entity.Type(req.Type),
		Currency: req.Currency,
		Exchange: req.Exchange,
		Active:   active,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidISIN), errors.Is(err, usecase.ErrInvalidType):
			slog.Warn("instrument create rejected", "error", err, "actor", actor)
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrInstrumentAlreadyExists):
			slog.Warn("instrument create conflict", "isin", req.ISIN, "actor", actor)
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to create instrument", "error", err, "isin", req.ISIN)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create instrument"})
		}
		return
	}

	slog.Info("instrument created", "isin", inst.ISIN, "actor", actor)
	c.JSON(http.StatusCreated, toInstrumentRes(*inst))
}

// Update handles PUT /instruments/:isin.
// - 400 when the body fails validation
// - 404 when the instrument does not exist
// - 200 with the stored instrument on success
func (h *InstrumentHandler) Update(c *gin.Context) {
	actor, ok := jwtmw.EmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}

	var req dto.UpdateInstrumentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("instrument update validation failed", "error", err, "actor", actor)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	inst, err := h.uc.Update(c.Request.Context(), actor, c.Param("isin"), entity.Instrument{
		Name:     req.Name,
		Symbol:   req.Symbol,
		Type:     entity.Type(req.Type),
		Currency: req.Currency,
		Exchange: req.Exchange,
		Active:   *req.Active,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInstrumentNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "instrument not found"})
		case errors.Is(err, usecase.ErrInvalidType):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to update instrument", "error", err, "isin", c.Param("isin"))
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update instrument"})
		}
		return
	}

	slog.Info("instrument updated", "isin", inst.ISIN, "actor", actor)
	c.JSON(http.StatusOK, toInstrumentRes(*inst))
}

// Delete handles DELETE /instruments/:isin.
// - 404 when the instrument does not exist
// - 409 while custom holdings still reference the ISIN
// - 204 on success
func (h *InstrumentHandler) Delete(c *gin.Context) {
	actor, ok := jwtmw.EmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}

	if err := h.uc.Delete(c.Request.Context(), actor, c.Param("isin")); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInstrumentNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "instrument not found"})
		case errors.Is(err, usecase.ErrInstrumentReferenced):
			slog.Warn("instrument delete conflict", "isin", c.Param("isin"), "actor", actor)
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to delete instrument", "error", err, "isin", c.Param("isin"))
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete instrument"})
		}
		return
	}

	slog.Info("instrument deleted", "isin", c.Param("isin"), "actor", actor)
	c.Status(http.StatusNoContent)
}

// toInstrumentRes maps a domain instrument to its JSON shape.
func toInstrumentRes(inst entity.Instrument) dto.InstrumentRes {
	return dto.InstrumentRes{
		ID:        inst.ID,
		ISIN:      inst.ISIN,
		Name:      inst.Name,
		Symbol:    inst.Symbol,
		Type:      inst.Type.String(),
		Currency:  inst.Currency,
		Exchange:  inst.Exchange,
		Active:    inst.Active,
		CreatedBy: inst.CreatedBy,
		UpdatedBy: inst.UpdatedBy,
		CreatedAt: inst.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: inst.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
