package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-scraper/internal/dto"
	"github.com/octobees/leads-scraper/internal/service"
)

// RunsHandler exposes pipeline run endpoints.
type RunsHandler struct {
	runs *service.RunsService
}

// NewRunsHandler constructs a RunsHandler.
func NewRunsHandler(runs *service.RunsService) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// Start handles POST /runs requests. The pipeline executes asynchronously;
// the response carries the run id to poll.
func (h *RunsHandler) Start(c echo.Context) error {
	var req dto.StartRunRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.TargetURL = strings.TrimSpace(req.TargetURL)
	req.Location = strings.TrimSpace(req.Location)
	if req.TargetURL == "" {
		return Error(c, http.StatusBadRequest, "target_url is required")
	}

	run, err := h.runs.Start(req.TargetURL, req.Location)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	return Success(c, http.StatusAccepted, "run started", run)
}

// Get handles GET /runs/:id requests.
func (h *RunsHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid run id")
	}

	run, err := h.runs.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			return Error(c, http.StatusNotFound, "run not found")
		}
		return Error(c, http.StatusInternalServerError, "unable to load run")
	}

	return Success(c, http.StatusOK, "run retrieved", run)
}

// List handles GET /runs requests.
func (h *RunsHandler) List(c echo.Context) error {
	return Success(c, http.StatusOK, "runs retrieved", h.runs.List())
}
