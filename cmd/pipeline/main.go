// Command pipeline runs the scraping pipeline once from the command line,
// without going through the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"

	"github.com/octobees/leads-scraper/internal/config"
	"github.com/octobees/leads-scraper/internal/database"
	"github.com/octobees/leads-scraper/internal/entity"
	"github.com/octobees/leads-scraper/internal/export"
	"github.com/octobees/leads-scraper/internal/extract"
	"github.com/octobees/leads-scraper/internal/fetch"
	"github.com/octobees/leads-scraper/internal/input"
	"github.com/octobees/leads-scraper/internal/pipeline"
	"github.com/octobees/leads-scraper/internal/proxy"
	"github.com/octobees/leads-scraper/internal/repository"
	"github.com/octobees/leads-scraper/internal/scraper"
	"github.com/octobees/leads-scraper/internal/search"
	"github.com/octobees/leads-scraper/internal/store"
)

// staticNames bypasses listing extraction when names come from a CSV file.
type staticNames struct {
	names []string
}

func (s *staticNames) ExtractNames(context.Context, string, []string) ([]string, error) {
	return s.names, nil
}

// dbSink persists pipeline records under a generated run id.
type dbSink struct {
	repo  repository.RecordsRepository
	runID uuid.UUID
}

func (s *dbSink) SaveRecords(ctx context.Context, records []entity.BusinessRecord) error {
	return s.repo.SaveRecords(ctx, s.runID, records)
}

func main() {
	var (
		targetURL = flag.String("url", "", "listing page URL to extract business names from")
		urlsFile  = flag.String("urls-csv", "", "CSV file with a url column of listing pages")
		namesFile = flag.String("names-csv", "", "CSV file with a business_name column, skips listing extraction")
		location  = flag.String("location", "", "location added to website searches")
		outputDir = flag.String("output", "", "directory for exports and snapshots (overrides OUTPUT_DIR)")
	)
	flag.Parse()

	if *targetURL == "" && *urlsFile == "" && *namesFile == "" {
		fmt.Fprintln(os.Stderr, "one of -url, -urls-csv or -names-csv is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
		cfg.SnapshotDir = *outputDir
	}

	ctx := context.Background()

	fetchOpts := fetch.Options{
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}
	if len(cfg.Proxies) > 0 {
		fetchOpts.Proxies = proxy.NewPool(cfg.Proxies)
	}
	fetcher := fetch.NewClient(fetchOpts)

	searchFn, err := search.NewGoogleSearch(ctx, cfg.GoogleAPIKey, cfg.GoogleSearchEngineID)
	if err != nil {
		log.Fatalf("failed to create search client: %v", err)
	}

	snapshots, err := store.New(cfg.SnapshotDir)
	if err != nil {
		log.Fatalf("failed to create snapshot store: %v", err)
	}
	exporter, err := export.New(cfg.OutputDir, nil)
	if err != nil {
		log.Fatalf("failed to create exporter: %v", err)
	}

	var sink pipeline.RecordSink
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}
		defer pool.Close()
		sink = &dbSink{repo: repository.NewPGXRecordsRepository(pool), runID: uuid.New()}
	}

	var extractor pipeline.NameExtractor = extract.New(fetcher, nil)
	targets := []string{*targetURL}
	runLocation := *location

	switch {
	case *namesFile != "":
		entries, err := readNamesFile(*namesFile)
		if err != nil {
			log.Fatalf("failed to read names file: %v", err)
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name)
			if runLocation == "" && entry.Location != "" {
				runLocation = entry.Location
			}
		}
		extractor = &staticNames{names: names}
		targets = []string{*namesFile}
	case *urlsFile != "":
		entries, err := readURLsFile(*urlsFile)
		if err != nil {
			log.Fatalf("failed to read urls file: %v", err)
		}
		targets = targets[:0]
		for _, entry := range entries {
			targets = append(targets, entry.URL)
		}
	}

	pipe := pipeline.New(
		extractor,
		search.NewResolver(searchFn, nil),
		scraper.New(fetcher, cfg.DefaultRegion, nil),
		exporter,
		snapshots,
		sink,
		nil,
		pipeline.Options{
			SearchWorkers: cfg.SearchWorkers,
			SearchDelay:   cfg.SearchDelay,
			ScrapeWorkers: cfg.ScrapeWorkers,
			ScrapeDelay:   cfg.ScrapeDelay,
		},
	)

	failed := false
	for _, target := range targets {
		result, err := pipe.Run(ctx, target, runLocation)
		if err != nil {
			log.Printf("run against %s failed: %v", target, err)
			failed = true
			continue
		}
		printSummary(target, result)
	}
	if failed {
		os.Exit(1)
	}
}

func readNamesFile(path string) ([]input.BusinessName, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return input.ReadBusinessNames(f)
}

func readURLsFile(path string) ([]input.ListingURL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return input.ReadListingURLs(f)
}

func printSummary(target string, result *pipeline.RunResult) {
	fmt.Printf("target: %s\n", target)
	fmt.Printf("status: %s\n", result.Status)
	if result.Report != nil {
		fmt.Printf("businesses: %d, with urls: %d, with contacts: %d, success rate: %s\n",
			result.Report.TotalBusinesses,
			result.Report.BusinessesWithURLs,
			result.Report.BusinessesWithContacts,
			result.Report.SuccessRate,
		)
		fmt.Printf("emails: %d, phones: %d, failed: %d\n",
			result.Report.TotalEmailsCollected,
			result.Report.TotalPhonesCollected,
			result.Report.FailedCount,
		)
	}
	for _, res := range result.Exports {
		if res.Err != nil {
			fmt.Printf("export %s failed: %v\n", res.Format, res.Err)
			continue
		}
		fmt.Printf("export %s: %s\n", res.Format, res.Path)
	}
	for _, warning := range result.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}
}
