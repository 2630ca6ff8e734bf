// Package handler provides HTTP handlers for the reports feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fundops_backend/internal/api"
	"fundops_backend/internal/feature/reports/domain/entity"
	"fundops_backend/internal/feature/reports/transport/http/dto"
	"fundops_backend/internal/feature/reports/usecase"
	jwtmw "fundops_backend/internal/platform/jwt"
	"fundops_backend/internal/shared/datefmt"
	"fundops_backend/internal/shared/pagination"
)

// ReportsUsecase defines the report batch operations the handler depends on.
// Following Go convention, the interface is defined by the consumer (handler),
// not the provider (usecase).
type ReportsUsecase interface {
	// Upload stores the file and registers a pending batch on behalf of actor.
	Upload(ctx context.Context, actor string, in usecase.UploadInput) (*entity.ReportBatch, error)
	// GetByID retrieves a single batch.
	GetByID(ctx context.Context, id string) (*entity.ReportBatch, error)
	// List returns a filtered page of batches, newest first.
	List(ctx context.Context, filter usecase.Filter, params pagination.Params) (*pagination.Page[entity.ReportBatch], error)
	// Reprocess puts a failed batch back in the queue on behalf of actor.
	Reprocess(ctx context.Context, actor, id string) (*entity.ReportBatch, error)
	// Delete removes a batch and its stored file on behalf of actor.
	Delete(ctx context.Context, actor, id string) error
}

// ReportHandler handles HTTP requests for report batch management.
type ReportHandler struct {
	uc             ReportsUsecase
	maxUploadBytes int64
}

// NewReportHandler creates a new instance of ReportHandler.
// maxUploadBytes caps upload sizes; zero disables the cap.
func NewReportHandler(uc ReportsUsecase, maxUploadBytes int64) *ReportHandler {
	return &ReportHandler{uc: uc, maxUploadBytes: maxUploadBytes}
}

// Upload handles POST /report-batches.
// The multipart body carries the file part plus kind and business_date fields.
// - 400 when a field is missing or invalid
// - 413 when the file exceeds the upload size limit
// - 201 with the pending batch on success
func (h *ReportHandler) Upload(c *gin.Context) {
	actor, ok := jwtmw.EmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		slog.Warn("report upload missing file", "error", err, "actor", actor)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "multipart field \"file\" is required"})
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		slog.Warn("report upload too large", "size", fileHeader.Size, "limit", h.maxUploadBytes, "actor", actor)
		c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: "file exceeds the upload size limit"})
		return
	}

	businessDate, err := datefmt.ParseDate(c.PostForm("business_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		slog.Error("failed to open report upload", "error", err, "file", fileHeader.Filename)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read upload"})
		return
	}
	defer f.Close()

	batch, err := h.uc.Upload(c.Request.Context(), actor, usecase.UploadInput{
		Kind:         c.PostForm("kind"),
		BusinessDate: businessDate,
		OriginalName: fileHeader.Filename,
		SizeBytes:    fileHeader.Size,
		Content:      f,
	})
	if err != nil {
		switch {
		case isUploadRejection(err):
			slog.Warn("report upload rejected", "error", err, "actor", actor, "file", fileHeader.Filename)
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to store report upload", "error", err, "file", fileHeader.Filename)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to store upload"})
		}
		return
	}

	slog.Info("report batch uploaded", "id", batch.ID, "kind", batch.Kind, "actor", actor)
	c.JSON(http.StatusCreated, toBatchRes(*batch))
}

// List handles GET /report-batches.
// Query parameters: status, kind, from, to (YYYY-MM-DD), page, page_size.
func (h *ReportHandler) List(c *gin.Context) {
	var filter usecase.Filter

	if raw := c.Query("status"); raw != "" {
		status, ok := entity.ParseStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "unknown status"})
			return
		}
		filter.Status = status
	}
	if raw := c.Query("kind"); raw != "" {
		kind, ok := entity.ParseKind(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "unknown report kind"})
			return
		}
		filter.Kind = kind
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
		slog.Error("failed to list report batches", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list report batches"})
		return
	}

	items := make([]dto.ReportBatchRes, len(page.Items))
	for i, batch := range page.Items {
		items[i] = toBatchRes(batch)
	}
	c.JSON(http.StatusOK, pagination.Page[dto.ReportBatchRes]{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// Get handles GET /report-batches/:id.
func (h *ReportHandler) Get(c *gin.Context) {
	batch, err := h.uc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrBatchNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "report batch not found"})
			return
		}
		slog.Error("failed to get report batch", "error", err, "id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to get report batch"})
		return
	}
	c.JSON(http.StatusOK, toBatchRes(*batch))
}

// Reprocess handles POST /report-batches/:id/reprocess.
// - 404 when the batch does not exist
// - 409 when the batch has not failed
// - 200 with the re-queued batch on success
func (h *ReportHandler) Reprocess(c *gin.Context) {
	actor, ok := jwtmw.EmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}

	batch, err := h.uc.Reprocess(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrBatchNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "report batch not found"})
		case errors.Is(err, usecase.ErrNotReprocessable):
			slog.Warn("report reprocess conflict", "id", c.Param("id"), "actor", actor)
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to reprocess report batch", "error", err, "id", c.Param("id"))
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to reprocess report batch"})
		}
		return
	}

	slog.Info("report batch re-queued", "id", batch.ID, "actor", actor)
	c.JSON(http.StatusOK, toBatchRes(*batch))
}

// Delete handles DELETE /report-batches/:id.
// - 404 when the batch does not exist
// - 409 while the processor is working on the batch
// - 204 on success
func (h *ReportHandler) Delete(c *gin.Context) {
	actor, ok := jwtmw.EmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}

	if err := h.uc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, usecase.ErrBatchNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "report batch not found"})
		case errors.Is(err, usecase.ErrBatchProcessing):
			slog.Warn("report delete conflict", "id", c.Param("id"), "actor", actor)
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to delete report batch", "error", err, "id", c.Param("id"))
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete report batch"})
		}
		return
	}

	slog.Info("report batch deleted", "id", c.Param("id"), "actor", actor)
	c.Status(http.StatusNoContent)
}

// isUploadRejection reports whether err is one of the upload validation
// sentinels that should surface as a 400.
func isUploadRejection(err error) bool {
	return errors.Is(err, usecase.ErrInvalidKind) ||
		errors.Is(err, usecase.ErrFutureDate) ||
		errors.Is(err, usecase.ErrNotCSV) ||
		errors.Is(err, usecase.ErrEmptyFile)
}

// toBatchRes maps a domain batch to its JSON shape.
func toBatchRes(b entity.ReportBatch) dto.ReportBatchRes {
	res := dto.ReportBatchRes{
		ID:           b.ID,
		OriginalName: b.OriginalName,
		Kind:         b.Kind.String(),
		BusinessDate: datefmt.FormatDate(b.BusinessDate),
		Status:       b.Status.String(),
		RowCount:     b.RowCount,
		ErrorCount:   b.ErrorCount,
		Error:        b.Error,
		SizeBytes:    b.SizeBytes,
		UploadedBy:   b.UploadedBy,
		CreatedAt:    b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    b.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if b.ProcessedAt != nil {
		res.ProcessedAt = b.ProcessedAt.UTC().Format(time.RFC3339)
	}
	return res
}
