package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundops_backend/internal/feature/holdings/domain/entity"
	"fundops_backend/internal/feature/holdings/usecase"
	jwtmw "fundops_backend/internal/platform/jwt"
	"fundops_backend/internal/platform/validation"
	"fundops_backend/internal/shared/datefmt"
	"fundops_backend/internal/shared/pagination"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterBindingRules(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// mockHoldingsUsecase is a mock implementation of the HoldingsUsecase interface.
type mockHoldingsUsecase struct {
	CreateFunc    func(ctx context.Context, actor string, holding entity.CustomHolding) (*entity.CustomHolding, error)
	GetByIDFunc   func(ctx context.Context, id uint) (*entity.CustomHolding, error)
	ListFunc      func(ctx context.Context, filter usecase.Filter, params pagination.Params) (*pagination.Page[entity.CustomHolding], error)
	UpdateFunc    func(ctx context.Context, actor string, id uint, upd entity.CustomHolding) (*entity.CustomHolding, error)
	DeleteFunc    func(ctx context.Context, actor string, id uint) error
	ImportCSVFunc func(ctx context.Context, actor string, r io.Reader) (int, error)
}

func (m *mockHoldingsUsecase) Create(ctx context.Context, actor string, holding entity.CustomHolding) (*entity.CustomHolding, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, actor, holding)
	}
	holding.ID = 1
	return &holding, nil
}

func (m *mockHoldingsUsecase) GetByID(ctx context.Context, id uint) (*entity.CustomHolding, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, usecase.ErrHoldingNotFound
}

func (m *mockHoldingsUsecase) List(ctx context.Context, filter usecase.Filter, params pagination.Params) (*pagination.Page[entity.CustomHolding], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, params)
	}
	return pagination.NewPage[entity.CustomHolding](nil, 0, params), nil
}

func (m *mockHoldingsUsecase) Update(ctx context.Context, actor string, id uint, upd entity.CustomHolding) (*entity.CustomHolding, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, actor, id, upd)
	}
	upd.ID = id
	return &upd, nil
}

func (m *mockHoldingsUsecase) Delete(ctx context.Context, actor string, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actor, id)
	}
	return nil
}

func (m *mockHoldingsUsecase) ImportCSV(ctx context.Context, actor string, r io.Reader) (int, error) {
	if m.ImportCSVFunc != nil {
		return m.ImportCSVFunc(ctx, actor, r)
	}
	return 0, nil
}

// setupRouter wires the handler under test. A non-empty actor is injected
// into the context the way the JWT middleware would.
func setupRouter(h *HoldingHandler, actor string) *gin.Engine {
	router := gin.New()
	seed := func(c *gin.Context) {
		if actor != "" {
			c.Set(jwtmw.ContextEmail, actor)
		}
	}
	router.GET("/holdings", h.List)
	router.GET("/holdings/:id", h.Get)
	router.POST("/holdings", seed, h.Create)
	router.PUT("/holdings/:id", seed, h.Update)
	router.DELETE("/holdings/:id", seed, h.Delete)
	router.POST("/holdings/import", seed, h.Import)
	return router
}

func performRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err, "failed to build request")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// performImport uploads content as the file field of a multipart request.
func performImport(t *testing.T, router *gin.Engine, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "holdings.csv")
	require.NoError(t, err, "failed to create form file")
	_, err = io.WriteString(fw, content)
	require.NoError(t, err, "failed to write form file")
	require.NoError(t, mw.Close(), "failed to close multipart writer")

	req, err := http.NewRequest(http.MethodPost, "/holdings/import", &buf)
	require.NoError(t, err, "failed to build request")
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// storedHolding is the canonical holding returned by mock lookups.
func storedHolding() entity.CustomHolding {
	effective, _ := datefmt.ParseDate("2026-08-20")
	return entity.CustomHolding{
		ID:            3,
		PortfolioCode: "FUNDA",
		ISIN:          "US0378331005",
		Quantity:      decimal.RequireFromString("100"),
		MarketValue:   decimal.RequireFromString("15000.50"),
		Currency:      "USD",
		EffectiveDate: effective,
	}
}

const validCreateBody = `{
	"portfolio_code": "FUNDA",
	"isin": "US0378331005",
	"quantity": 100,
	"market_value": 15000.50,
	"currency": "USD",
	"effective_date": "2026-08-20"
}`

func TestHoldingHandler_List(t *testing.T) {
	t.Run("success: forwards filters and pages", func(t *testing.T) {
		var gotFilter usecase.Filter
		var gotParams pagination.Params
		mockUC := &mockHoldingsUsecase{
			ListFunc: func(ctx context.Context, filter usecase.Filter, params pagination.Params) (*pagination.Page[entity.CustomHolding], error) {
				gotFilter, gotParams = filter, params
				return pagination.NewPage([]entity.CustomHolding{storedHolding()}, 1, params), nil
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "")

		w := performRequest(t, router, http.MethodGet, "/holdings?portfolio_code=FUNDA&from=2026-08-01&to=2026-08-31&page=2&page_size=10", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "FUNDA", gotFilter.PortfolioCode)
		assert.Equal(t, "2026-08-01", datefmt.FormatDate(gotFilter.From))
		assert.Equal(t, "2026-08-31", datefmt.FormatDate(gotFilter.To))
		assert.Equal(t, 2, gotParams.Page)
		assert.Equal(t, 10, gotParams.PageSize)
		assert.Contains(t, w.Body.String(), `"quantity":"100"`)
	})

	t.Run("failure: malformed from date", func(t *testing.T) {
		router := setupRouter(NewHoldingHandler(&mockHoldingsUsecase{}, 1<<20), "")

		w := performRequest(t, router, http.MethodGet, "/holdings?from=01-08-2026", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("failure: repository error", func(t *testing.T) {
		mockUC := &mockHoldingsUsecase{
			ListFunc: func(ctx context.Context, filter usecase.Filter, params pagination.Params) (*pagination.Page[entity.CustomHolding], error) {
				return nil, errors.New("connection refused")
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "")

		w := performRequest(t, router, http.MethodGet, "/holdings", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHoldingHandler_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockUC := &mockHoldingsUsecase{
			GetByIDFunc: func(ctx context.Context, id uint) (*entity.CustomHolding, error) {
				h := storedHolding()
				return &h, nil
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "")

		w := performRequest(t, router, http.MethodGet, "/holdings/3", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"portfolio_code":"FUNDA"`)
		assert.Contains(t, w.Body.String(), `"effective_date":"2026-08-20"`)
	})

	t.Run("failure: not found", func(t *testing.T) {
		router := setupRouter(NewHoldingHandler(&mockHoldingsUsecase{}, 1<<20), "")

		w := performRequest(t, router, http.MethodGet, "/holdings/42", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("failure: garbage id", func(t *testing.T) {
		router := setupRouter(NewHoldingHandler(&mockHoldingsUsecase{}, 1<<20), "")

		w := performRequest(t, router, http.MethodGet, "/holdings/three", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHoldingHandler_Create(t *testing.T) {
	t.Run("success: forwards the actor and parsed date", func(t *testing.T) {
		var gotActor string
		var gotHolding entity.CustomHolding
		mockUC := &mockHoldingsUsecase{
			CreateFunc: func(ctx context.Context, actor string, holding entity.CustomHolding) (*entity.CustomHolding, error) {
				gotActor, gotHolding = actor, holding
				holding.ID = 1
				return &holding, nil
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "ops@example.com")

		w := performRequest(t, router, http.MethodPost, "/holdings", validCreateBody)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "ops@example.com", gotActor)
		assert.Equal(t, "FUNDA", gotHolding.PortfolioCode)
		assert.Equal(t, "2026-08-20", datefmt.FormatDate(gotHolding.EffectiveDate))
		assert.Contains(t, w.Body.String(), `"id":1`)
	})

	t.Run("failure: binding rejects a missing currency", func(t *testing.T) {
		mockUC := &mockHoldingsUsecase{
			CreateFunc: func(ctx context.Context, actor string, holding entity.CustomHolding) (*entity.CustomHolding, error) {
				t.Error("Create should not be called for an invalid body")
				return nil, nil
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "ops@example.com")

		body := `{"portfolio_code":"FUNDA","isin":"US0378331005","quantity":100,"market_value":1,"effective_date":"2026-08-20"}`
		w := performRequest(t, router, http.MethodPost, "/holdings", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("failure: malformed effective date", func(t *testing.T) {
		router := setupRouter(NewHoldingHandler(&mockHoldingsUsecase{}, 1<<20), "ops@example.com")

		body := strings.Replace(validCreateBody, "2026-08-20", "20.08.2026", 1)
		w := performRequest(t, router, http.MethodPost, "/holdings", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("failure: unknown instrument surfaces as 400", func(t *testing.T) {
		mockUC := &mockHoldingsUsecase{
			CreateFunc: func(ctx context.Context, actor string, holding entity.CustomHolding) (*entity.CustomHolding, error) {
				return nil, usecase.ErrUnknownInstrument
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "ops@example.com")

		w := performRequest(t, router, http.MethodPost, "/holdings", validCreateBody)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "registered instrument")
	})

	t.Run("failure: duplicate key surfaces as 409", func(t *testing.T) {
		mockUC := &mockHoldingsUsecase{
			CreateFunc: func(ctx context.Context, actor string, holding entity.CustomHolding) (*entity.CustomHolding, error) {
				return nil, usecase.ErrHoldingAlreadyExists
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "ops@example.com")

		w := performRequest(t, router, http.MethodPost, "/holdings", validCreateBody)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("failure: no principal in context", func(t *testing.T) {
		router := setupRouter(NewHoldingHandler(&mockHoldingsUsecase{}, 1<<20), "")

		w := performRequest(t, router, http.MethodPost, "/holdings", validCreateBody)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("failure: repository error", func(t *testing.T) {
		mockUC := &mockHoldingsUsecase{
			CreateFunc: func(ctx context.Context, actor string, holding entity.CustomHolding) (*entity.CustomHolding, error) {
				return nil, errors.New("connection refused")
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "ops@example.com")

		w := performRequest(t, router, http.MethodPost, "/holdings", validCreateBody)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHoldingHandler_Update(t *testing.T) {
	validBody := `{"quantity":120,"market_value":18000,"currency":"EUR","note":"manual correction"}`

	t.Run("success", func(t *testing.T) {
		var gotID uint
		var gotUpd entity.CustomHolding
		mockUC := &mockHoldingsUsecase{
			UpdateFunc: func(ctx context.Context, actor string, id uint, upd entity.CustomHolding) (*entity.CustomHolding, error) {
				gotID, gotUpd = id, upd
				h := storedHolding()
				h.Quantity = upd.Quantity
				h.Note = upd.Note
				return &h, nil
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "ops@example.com")

		w := performRequest(t, router, http.MethodPut, "/holdings/3", validBody)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(3), gotID)
		assert.True(t, gotUpd.Quantity.Equal(decimal.RequireFromString("120")))
		assert.Equal(t, "manual correction", gotUpd.Note)
		assert.Contains(t, w.Body.String(), `"quantity":"120"`)
	})

	t.Run("failure: not found", func(t *testing.T) {
		mockUC := &mockHoldingsUsecase{
			UpdateFunc: func(ctx context.Context, actor string, id uint, upd entity.CustomHolding) (*entity.CustomHolding, error) {
				return nil, usecase.ErrHoldingNotFound
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "ops@example.com")

		w := performRequest(t, router, http.MethodPut, "/holdings/42", validBody)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("failure: zero quantity surfaces as 400", func(t *testing.T) {
		mockUC := &mockHoldingsUsecase{
			UpdateFunc: func(ctx context.Context, actor string, id uint, upd entity.CustomHolding) (*entity.CustomHolding, error) {
				return nil, usecase.ErrZeroQuantity
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "ops@example.com")

		w := performRequest(t, router, http.MethodPut, "/holdings/3", validBody)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHoldingHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotID uint
		mockUC := &mockHoldingsUsecase{
			DeleteFunc: func(ctx context.Context, actor string, id uint) error {
				gotID = id
				return nil
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "admin@example.com")

		w := performRequest(t, router, http.MethodDelete, "/holdings/5", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, uint(5), gotID)
	})

	t.Run("failure: not found", func(t *testing.T) {
		mockUC := &mockHoldingsUsecase{
			DeleteFunc: func(ctx context.Context, actor string, id uint) error {
				return usecase.ErrHoldingNotFound
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "admin@example.com")

		w := performRequest(t, router, http.MethodDelete, "/holdings/42", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHoldingHandler_Import(t *testing.T) {
	csvContent := "portfolio_code,isin,quantity,market_value,currency,effective_date\n" +
		"FUNDA,US0378331005,100,15000.50,USD,2026-08-20\n"

	t.Run("success: reports the imported row count", func(t *testing.T) {
		var gotActor, gotContent string
		mockUC := &mockHoldingsUsecase{
			ImportCSVFunc: func(ctx context.Context, actor string, r io.Reader) (int, error) {
				raw, err := io.ReadAll(r)
				require.NoError(t, err)
				gotActor, gotContent = actor, string(raw)
				return 1, nil
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "ops@example.com")

		w := performImport(t, router, csvContent)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "ops@example.com", gotActor)
		assert.Equal(t, csvContent, gotContent, "the file should reach the usecase untouched")

		var res struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 1, res.Count)
	})

	t.Run("failure: missing file field", func(t *testing.T) {
		router := setupRouter(NewHoldingHandler(&mockHoldingsUsecase{}, 1<<20), "ops@example.com")

		w := performRequest(t, router, http.MethodPost, "/holdings/import", `{"not":"multipart"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("failure: file over the size limit", func(t *testing.T) {
		mockUC := &mockHoldingsUsecase{
			ImportCSVFunc: func(ctx context.Context, actor string, r io.Reader) (int, error) {
				t.Error("ImportCSV should not be called for an oversized file")
				return 0, nil
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 16), "ops@example.com")

		w := performImport(t, router, csvContent)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("failure: usecase rejection names the line", func(t *testing.T) {
		mockUC := &mockHoldingsUsecase{
			ImportCSVFunc: func(ctx context.Context, actor string, r io.Reader) (int, error) {
				return 0, fmt.Errorf("line 2: %w", usecase.ErrZeroQuantity)
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "ops@example.com")

		w := performImport(t, router, csvContent)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "line 2")
	})

	t.Run("failure: no principal in context", func(t *testing.T) {
		router := setupRouter(NewHoldingHandler(&mockHoldingsUsecase{}, 1<<20), "")

		w := performImport(t, router, csvContent)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("failure: repository error", func(t *testing.T) {
		mockUC := &mockHoldingsUsecase{
			ImportCSVFunc: func(ctx context.Context, actor string, r io.Reader) (int, error) {
				return 0, errors.New("connection refused")
			},
		}
		router := setupRouter(NewHoldingHandler(mockUC, 1<<20), "ops@example.com")

		w := performImport(t, router, csvContent)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
