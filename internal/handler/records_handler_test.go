package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-scraper/internal/entity"
)

type stubRecordsRepo struct {
	byRun  func(ctx context.Context, runID uuid.UUID) ([]entity.BusinessRecord, error)
	recent func(ctx context.Context, limit, offset int) ([]entity.BusinessRecord, error)
}

func (s *stubRecordsRepo) SaveRecords(context.Context, uuid.UUID, []entity.BusinessRecord) error {
	return errors.New("not implemented")
}

func (s *stubRecordsRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]entity.BusinessRecord, error) {
	if s.byRun != nil {
		return s.byRun(ctx, runID)
	}
	return nil, errors.New("not implemented")
}

func (s *stubRecordsRepo) ListRecent(ctx context.Context, limit, offset int) ([]entity.BusinessRecord, error) {
	if s.recent != nil {
		return s.recent(ctx, limit, offset)
	}
	return nil, errors.New("not implemented")
}

func recordsContext(e *echo.Echo, query url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/records?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRecordsHandler_ListByRun(t *testing.T) {
	e := echo.New()
	runID := uuid.New()
	handler := NewRecordsHandler(&stubRecordsRepo{
		byRun: func(_ context.Context, got uuid.UUID) ([]entity.BusinessRecord, error) {
			if got != runID {
				t.Fatalf("expected run id %s, got %s", runID, got)
			}
			return []entity.BusinessRecord{{BusinessName: "Acme"}}, nil
		},
	})

	c, rec := recordsContext(e, url.Values{"run_id": {runID.String()}})
	_ = handler.List(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	records, ok := payload.Data.([]any)
	if !ok || len(records) != 1 {
		t.Fatalf("expected one record, got %+v", payload.Data)
	}
}

func TestRecordsHandler_ListRecentWithLimit(t *testing.T) {
	e := echo.New()
	handler := NewRecordsHandler(&stubRecordsRepo{
		recent: func(_ context.Context, limit, offset int) ([]entity.BusinessRecord, error) {
			if limit != 25 || offset != 50 {
				t.Fatalf("expected limit 25 offset 50, got %d %d", limit, offset)
			}
			return nil, nil
		},
	})

	c, rec := recordsContext(e, url.Values{"limit": {"25"}, "offset": {"50"}})
	_ = handler.List(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRecordsHandler_ListValidation(t *testing.T) {
	e := echo.New()
	handler := NewRecordsHandler(&stubRecordsRepo{})

	c, rec := recordsContext(e, url.Values{"run_id": {"not-a-uuid"}})
	_ = handler.List(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad run_id, got %d", rec.Code)
	}

	c, rec = recordsContext(e, url.Values{"limit": {"-5"}})
	_ = handler.List(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
}

func TestRecordsHandler_ListRepositoryError(t *testing.T) {
	e := echo.New()
	handler := NewRecordsHandler(&stubRecordsRepo{
		recent: func(context.Context, int, int) ([]entity.BusinessRecord, error) {
			return nil, errors.New("connection refused")
		},
	})

	c, rec := recordsContext(e, url.Values{})
	_ = handler.List(c)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
