package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/leads-scraper/internal/entity"
	"github.com/octobees/leads-scraper/internal/pipeline"
	"github.com/octobees/leads-scraper/internal/repository"
)

// ErrRunNotFound is returned when no run matches the requested id.
var ErrRunNotFound = errors.New("run not found")

// PipelineRunner executes one full scraping pipeline run.
type PipelineRunner interface {
	Run(ctx context.Context, targetURL, location string) (*pipeline.RunResult, error)
}

// RunsService launches pipeline runs asynchronously and tracks their state
// in memory. Runs are lost on restart; the durable outputs live in the
// snapshot directory and the records table.
type RunsService struct {
	runner  PipelineRunner
	records repository.RecordsRepository
	logger  *log.Logger

	mu    sync.RWMutex
	runs  map[uuid.UUID]*entity.Run
	order []uuid.UUID
}

// NewRunsService constructs a new RunsService. records may be nil when no
// database is configured.
func NewRunsService(runner PipelineRunner, records repository.RecordsRepository, logger *log.Logger) *RunsService {
	if logger == nil {
		logger = log.New(log.Writer(), "runs: ", log.LstdFlags)
	}
	return &RunsService{
		runner:  runner,
		records: records,
		logger:  logger,
		runs:    make(map[uuid.UUID]*entity.Run),
	}
}

// Start validates the target URL, registers a run and executes the pipeline
// in the background. The returned run is a snapshot in the running state.
func (s *RunsService) Start(targetURL, location string) (entity.Run, error) {
	if err := validateTargetURL(targetURL); err != nil {
		return entity.Run{}, err
	}

	run := &entity.Run{
		ID:        uuid.New(),
		Status:    entity.RunStatusRunning,
		TargetURL: targetURL,
		StartedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)
	snapshot := *run
	s.mu.Unlock()

	// The run outlives the HTTP request that started it.
	go s.execute(run.ID, targetURL, location)

	return snapshot, nil
}

func (s *RunsService) execute(id uuid.UUID, targetURL, location string) {
	result, err := s.runner.Run(context.Background(), targetURL, location)

	if err == nil && s.records != nil && len(result.Records) > 0 {
		if saveErr := s.records.SaveRecords(context.Background(), id, result.Records); saveErr != nil {
			s.logger.Printf("run %s: record persistence failed: %v", id, saveErr)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return
	}
	run.FinishedAt = time.Now().UTC()

	if err != nil {
		run.Status = entity.RunStatusFailed
		run.Error = err.Error()
		s.logger.Printf("run %s failed: %v", id, err)
		return
	}

	run.Status = result.Status
	run.Report = result.Report
	s.logger.Printf("run %s finished with status %s", id, run.Status)
}

// Get returns a snapshot of one run.
func (s *RunsService) Get(id uuid.UUID) (entity.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return entity.Run{}, ErrRunNotFound
	}
	return *run, nil
}

// List returns snapshots of all runs, newest first.
func (s *RunsService) List() []entity.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Run, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, *s.runs[s.order[i]])
	}
	return out
}

func validateTargetURL(target string) error {
	if target == "" {
		return errors.New("target url must not be empty")
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid target url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("target url must use http or https")
	}
	if parsed.Host == "" {
		return errors.New("target url must include a host")
	}
	return nil
}
