// Package pipeline sequences the scraping stages: extract names, resolve
// URLs, scrape contacts, reconcile, export, report. Every stage's output is
// snapshotted as soon as it exists so a later failure never loses it.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/octobees/leads-scraper/internal/batch"
	"github.com/octobees/leads-scraper/internal/entity"
	"github.com/octobees/leads-scraper/internal/export"
	"github.com/octobees/leads-scraper/internal/reconcile"
)

// Snapshot file names written at stage boundaries. The partial_ variants are
// written on a best-effort basis when a stage fails.
const (
	SnapshotNames    = "extracted_businesses.json"
	SnapshotURLs     = "business_urls.json"
	SnapshotContacts = "contact_info.json"
	SnapshotReport   = "scraping_report.json"

	partialNames    = "partial_businesses.json"
	partialURLs     = "partial_urls.json"
	partialContacts = "partial_contacts.json"
)

// NameExtractor supplies business names from a listing page.
type NameExtractor interface {
	ExtractNames(ctx context.Context, listingURL string, selectors []string) ([]string, error)
}

// URLResolver maps business names to website URLs; failed lookups are "".
type URLResolver interface {
	ResolveBatch(ctx context.Context, names []string, location string, workers int, delay time.Duration) map[string]string
}

// ContactScraper extracts contact details from one website.
type ContactScraper interface {
	Scrape(ctx context.Context, pageURL, businessName string) *entity.ContactResult
}

// Exporter writes the reconciled records.
type Exporter interface {
	Export(records []entity.BusinessRecord) []export.FormatResult
}

// SnapshotStore persists intermediate stage state.
type SnapshotStore interface {
	Save(name string, v any) error
}

// RecordSink optionally persists reconciled records to longer-term storage.
type RecordSink interface {
	SaveRecords(ctx context.Context, records []entity.BusinessRecord) error
}

// Options tunes the batch stages.
type Options struct {
	Selectors     []string
	SearchWorkers int
	SearchDelay   time.Duration
	ScrapeWorkers int
	ScrapeDelay   time.Duration
}

// RunResult is the explicit outcome of a pipeline run. Warnings carry
// non-fatal problems (snapshot or partial export failures) instead of
// burying them in swallowed exceptions.
type RunResult struct {
	Status   entity.RunStatus
	Names    []string
	URLs     map[string]string
	Contacts map[string]*entity.ContactResult
	Records  []entity.BusinessRecord
	Report   *entity.Report
	Exports  []export.FormatResult
	Warnings []string
}

// Pipeline wires the stage collaborators together.
type Pipeline struct {
	extractor NameExtractor
	resolver  URLResolver
	scraper   ContactScraper
	exporter  Exporter
	snapshots SnapshotStore
	sink      RecordSink
	logger    *log.Logger
	opts      Options
}

// New assembles a pipeline. sink may be nil when no record store is
// configured.
func New(extractor NameExtractor, resolver URLResolver, scraper ContactScraper, exporter Exporter, snapshots SnapshotStore, sink RecordSink, logger *log.Logger, opts Options) *Pipeline {
	if logger == nil {
		logger = log.New(log.Writer(), "pipeline: ", log.LstdFlags)
	}
	return &Pipeline{
		extractor: extractor,
		resolver:  resolver,
		scraper:   scraper,
		exporter:  exporter,
		snapshots: snapshots,
		sink:      sink,
		logger:    logger,
		opts:      opts,
	}
}

// Run executes all stages against one listing URL. location narrows the
// website searches and may be empty. A stage failure triggers best-effort
// persistence of whatever partial state exists, then the stage error
// propagates; an empty name extraction halts early with an empty result.
func (p *Pipeline) Run(ctx context.Context, targetURL, location string) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{Status: entity.RunStatusRunning}

	p.logger.Printf("stage 1: extracting business names from %s", targetURL)
	names, err := p.extractor.ExtractNames(ctx, targetURL, p.opts.Selectors)
	if err != nil {
		p.persistPartial(result)
		return nil, fmt.Errorf("extract names: %w", err)
	}
	if len(names) == 0 {
		p.logger.Printf("no business names extracted, halting")
		result.Status = entity.RunStatusHalted
		return result, nil
	}
	result.Names = names
	p.snapshot(result, SnapshotNames, names)
	p.logger.Printf("extracted %d business names", len(names))

	p.logger.Printf("stage 2: resolving website URLs")
	result.URLs = p.resolver.ResolveBatch(ctx, names, location, p.opts.SearchWorkers, p.opts.SearchDelay)
	p.snapshot(result, SnapshotURLs, result.URLs)

	p.logger.Printf("stage 3: scraping contact information")
	result.Contacts = p.scrapeContacts(ctx, result.URLs)
	p.snapshot(result, SnapshotContacts, result.Contacts)

	p.logger.Printf("stage 4: reconciling records")
	records, failed := reconcile.Reconcile(names, result.URLs, result.Contacts)
	result.Records = records

	p.logger.Printf("stage 5: exporting %d records", len(records))
	result.Exports = p.exporter.Export(records)
	if err := exportFailure(result.Exports); err != nil {
		p.persistPartial(result)
		return nil, fmt.Errorf("export records: %w", err)
	}
	for _, res := range result.Exports {
		if res.Err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("export %s failed: %v", res.Format, res.Err))
		}
	}
	if p.sink != nil {
		if err := p.sink.SaveRecords(ctx, records); err != nil {
			p.logger.Printf("record store save failed: %v", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("record store save failed: %v", err))
		}
	}

	p.logger.Printf("stage 6: generating report")
	report := reconcile.BuildReport(names, result.URLs, result.Contacts, failed)
	result.Report = &report
	p.snapshot(result, SnapshotReport, report)

	result.Status = entity.RunStatusCompleted
	p.logger.Printf("pipeline completed in %s", time.Since(start).Round(time.Millisecond))
	return result, nil
}

// scrapeContacts runs the contact scraper over every business with a
// resolved URL. Panics inside a worker become per-business error results.
func (p *Pipeline) scrapeContacts(ctx context.Context, urls map[string]string) map[string]*entity.ContactResult {
	withURL := make([]string, 0, len(urls))
	for name, url := range urls {
		if url != "" {
			withURL = append(withURL, name)
		}
	}

	results := batch.Run(ctx, withURL, func(ctx context.Context, name string) (*entity.ContactResult, error) {
		return p.scraper.Scrape(ctx, urls[name], name), nil
	}, batch.Options{Workers: p.opts.ScrapeWorkers, Delay: p.opts.ScrapeDelay})

	contacts := make(map[string]*entity.ContactResult, len(results))
	for name, res := range results {
		if res.Err != nil {
			contacts[name] = &entity.ContactResult{Error: res.Err.Error()}
			continue
		}
		contacts[name] = res.Value
	}
	return contacts
}

// snapshot persists one stage output; failures become run warnings, never
// stage failures.
func (p *Pipeline) snapshot(result *RunResult, name string, v any) {
	if err := p.snapshots.Save(name, v); err != nil {
		p.logger.Printf("snapshot %s failed: %v", name, err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("snapshot %s failed: %v", name, err))
	}
}

// persistPartial saves whatever stage outputs exist before a stage error
// propagates. Persistence failures are logged and swallowed so the original
// error stays the one the caller sees.
func (p *Pipeline) persistPartial(result *RunResult) {
	if len(result.Names) > 0 {
		if err := p.snapshots.Save(partialNames, result.Names); err != nil {
			p.logger.Printf("partial persistence of names failed: %v", err)
		}
	}
	if len(result.URLs) > 0 {
		if err := p.snapshots.Save(partialURLs, result.URLs); err != nil {
			p.logger.Printf("partial persistence of urls failed: %v", err)
		}
	}
	if len(result.Contacts) > 0 {
		if err := p.snapshots.Save(partialContacts, result.Contacts); err != nil {
			p.logger.Printf("partial persistence of contacts failed: %v", err)
		}
	}
}

// exportFailure reports an error only when every format failed.
func exportFailure(results []export.FormatResult) error {
	if len(results) == 0 {
		return nil
	}
	for _, res := range results {
		if res.Err == nil {
			return nil
		}
	}
	return fmt.Errorf("all export formats failed: %v", results[0].Err)
}
