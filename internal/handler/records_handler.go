package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-scraper/internal/repository"
)

// RecordsHandler serves persisted business records.
type RecordsHandler struct {
	records repository.RecordsRepository
}

// NewRecordsHandler constructs a RecordsHandler.
func NewRecordsHandler(records repository.RecordsRepository) *RecordsHandler {
	return &RecordsHandler{records: records}
}

// List handles GET /records requests. An optional run_id query parameter
// narrows results to one run; limit and offset page through the recent
// listing.
func (h *RecordsHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if runParam := c.QueryParam("run_id"); runParam != "" {
		runID, err := uuid.Parse(runParam)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid run_id")
		}
		records, err := h.records.ListByRun(ctx, runID)
		if err != nil {
			return Error(c, http.StatusInternalServerError, "unable to load records")
		}
		return Success(c, http.StatusOK, "records retrieved", records)
	}

	limit := 0
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed <= 0 {
			return Error(c, http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}
	offset := 0
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		parsed, err := strconv.Atoi(offsetParam)
		if err != nil || parsed < 0 {
			return Error(c, http.StatusBadRequest, "invalid offset")
		}
		offset = parsed
	}

	records, err := h.records.ListRecent(ctx, limit, offset)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to load records")
	}
	return Success(c, http.StatusOK, "records retrieved", records)
}
