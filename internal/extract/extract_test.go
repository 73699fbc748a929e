package extract

import (
	"context"
	"errors"
	"log"
	"reflect"
	"testing"
)

type stubFetcher struct {
	html string
	err  error
}

func (f *stubFetcher) Fetch(context.Context, string) (string, error) {
	return f.html, f.err
}

func discardLogger() *log.Logger {
	return log.New(nopWriter{}, "", 0)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestExtractNamesDeduplicatesInDiscoveryOrder(t *testing.T) {
	html := `<html><body>
		<div class="business-name">Acme Plumbing</div>
		<div class="business-name">Busy Cafe</div>
		<div class="business-name">Acme Plumbing</div>
		<div class="business-name">ok</div>
	</body></html>`
	e := New(&stubFetcher{html: html}, discardLogger())

	names, err := e.ExtractNames(context.Background(), "https://listings.example", []string{".business-name"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	// "ok" is too short to be a business name.
	if !reflect.DeepEqual(names, []string{"Acme Plumbing", "Busy Cafe"}) {
		t.Fatalf("unexpected names: %#v", names)
	}
}

func TestExtractNamesUsesDefaultSelectors(t *testing.T) {
	html := `<html><body><h2>Acme Plumbing</h2><h3>Busy Cafe</h3></body></html>`
	e := New(&stubFetcher{html: html}, discardLogger())

	names, err := e.ExtractNames(context.Background(), "https://listings.example", nil)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Acme Plumbing", "Busy Cafe"}) {
		t.Fatalf("unexpected names: %#v", names)
	}
}

func TestExtractNamesFetchFailure(t *testing.T) {
	e := New(&stubFetcher{err: errors.New("boom")}, discardLogger())

	if _, err := e.ExtractNames(context.Background(), "https://listings.example", nil); err == nil {
		t.Fatal("expected fetch error to propagate")
	}
}
