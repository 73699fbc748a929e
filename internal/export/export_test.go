package export

import (
	"encoding/csv"
	"encoding/json"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/octobees/leads-scraper/internal/entity"
)

func discardLogger() *log.Logger {
	return log.New(nopWriter{}, "", 0)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func sampleRecords() []entity.BusinessRecord {
	return []entity.BusinessRecord{
		{
			BusinessName: "Acme Plumbing",
			WebsiteURL:   "https://acme.example",
			Emails:       []string{"info@acme.example"},
			Phones:       []string{"+12065550100"},
			SocialLinks: []entity.SocialLink{
				{Platform: entity.PlatformFacebook, URL: "https://facebook.com/acme"},
			},
			SourcePage: "https://acme.example",
			ScrapedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			BusinessName: "Ghost LLC",
			Emails:       []string{},
			Phones:       []string{},
			SocialLinks:  []entity.SocialLink{},
			ScrapedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Errors:       "failed to fetch URL: timeout",
		},
	}
}

func TestExportWritesCSVAndJSON(t *testing.T) {
	e, err := New(t.TempDir(), discardLogger())
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}

	results := e.Export(sampleRecords())
	if len(results) != 2 {
		t.Fatalf("expected a result per format, got %#v", results)
	}

	byFormat := map[string]FormatResult{}
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("format %s failed: %v", res.Format, res.Err)
		}
		byFormat[res.Format] = res
	}

	f, err := os.Open(byFormat["csv"].Path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "Acme Plumbing" || !strings.Contains(rows[1][4], "facebook:") {
		t.Fatalf("unexpected csv row: %#v", rows[1])
	}
	if rows[2][7] == "" {
		t.Fatalf("failed business must keep its error column: %#v", rows[2])
	}

	data, err := os.ReadFile(byFormat["json"].Path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var decoded []entity.BusinessRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(decoded) != 2 || decoded[1].BusinessName != "Ghost LLC" {
		t.Fatalf("unexpected json export: %#v", decoded)
	}
}

func TestExportReportsPerFormatFailure(t *testing.T) {
	dir := t.TempDir()
	e, err := New(dir, discardLogger())
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	// Remove the directory after construction so file creation fails.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove dir: %v", err)
	}

	results := e.Export(sampleRecords())
	if len(results) != 2 {
		t.Fatalf("expected a result per format even on failure, got %#v", results)
	}
	for _, res := range results {
		if res.Err == nil {
			t.Fatalf("expected failure for format %s", res.Format)
		}
	}
}
