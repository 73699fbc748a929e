// Package export writes reconciled business records to the supported output
// formats, reporting each format's outcome instead of silently swallowing
// failures.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/octobees/leads-scraper/internal/entity"
)

var csvHeader = []string{
	"business_name", "website_url", "emails", "phones",
	"social_media", "source_page", "scrape_timestamp", "errors",
}

// FormatResult reports the outcome of exporting one format.
type FormatResult struct {
	Format string `json:"format"`
	Path   string `json:"path,omitempty"`
	Err    error  `json:"-"`
}

// Exporter writes record exports under an output directory.
type Exporter struct {
	dir    string
	logger *log.Logger
	now    func() time.Time
}

// New creates the output directory if needed.
func New(dir string, logger *log.Logger) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if logger == nil {
		logger = log.New(log.Writer(), "export: ", log.LstdFlags)
	}
	return &Exporter{dir: dir, logger: logger, now: time.Now}, nil
}

// Export writes the records as CSV and JSON. A failing format does not stop
// the others; each outcome is returned so the caller can decide whether a
// partial export is acceptable.
func (e *Exporter) Export(records []entity.BusinessRecord) []FormatResult {
	base := fmt.Sprintf("business_contacts_%s", e.now().Format("20060102_150405"))

	results := make([]FormatResult, 0, 2)
	for _, format := range []struct {
		name  string
		ext   string
		write func(path string, records []entity.BusinessRecord) error
	}{
		{"csv", ".csv", e.writeCSV},
		{"json", ".json", e.writeJSON},
	} {
		path := filepath.Join(e.dir, base+format.ext)
		err := format.write(path, records)
		if err != nil {
			e.logger.Printf("export %s failed: %v", format.name, err)
			results = append(results, FormatResult{Format: format.name, Err: err})
			continue
		}
		e.logger.Printf("exported %d records to %s", len(records), path)
		results = append(results, FormatResult{Format: format.name, Path: path})
	}
	return results
}

func (e *Exporter) writeCSV(path string, records []entity.BusinessRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.BusinessName,
			rec.WebsiteURL,
			strings.Join(rec.Emails, "; "),
			strings.Join(rec.Phones, "; "),
			joinSocialLinks(rec.SocialLinks),
			rec.SourcePage,
			rec.ScrapedAt.Format(time.RFC3339),
			rec.Errors,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func (e *Exporter) writeJSON(path string, records []entity.BusinessRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func joinSocialLinks(links []entity.SocialLink) string {
	parts := make([]string, 0, len(links))
	for _, link := range links {
		parts = append(parts, fmt.Sprintf("%s:%s", link.Platform, link.URL))
	}
	return strings.Join(parts, "; ")
}
