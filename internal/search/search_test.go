package search

import (
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

func discardLogger() *log.Logger {
	return log.New(nopWriter{}, "", 0)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestResolveSkipsDirectoryDomains(t *testing.T) {
	searchFn := func(_ context.Context, query string, _ int64) ([]string, error) {
		if !strings.Contains(query, `"Acme Plumbing"`) || !strings.Contains(query, "official website") {
			t.Fatalf("unexpected query: %q", query)
		}
		return []string{
			"https://www.yelp.com/biz/acme-plumbing",
			"https://facebook.com/acmeplumbing",
			"https://acmeplumbing.example",
		}, nil
	}

	url, err := NewResolver(searchFn, discardLogger()).Resolve(context.Background(), "Acme Plumbing", "Seattle")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if url != "https://acmeplumbing.example" {
		t.Fatalf("unexpected resolved url: %q", url)
	}
}

func TestResolvePrefersNameBearingDomain(t *testing.T) {
	searchFn := func(_ context.Context, _ string, _ int64) ([]string, error) {
		return []string{
			"https://somedirectoryless.example/listing",
			"https://busycafe.example",
		}, nil
	}

	url, err := NewResolver(searchFn, discardLogger()).Resolve(context.Background(), "busycafe", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if url != "https://busycafe.example" {
		t.Fatalf("expected name-bearing domain to win, got %q", url)
	}
}

func TestResolveSkipsTrackingURLs(t *testing.T) {
	searchFn := func(_ context.Context, _ string, _ int64) ([]string, error) {
		return []string{"https://ads.example/redirect?to=acme"}, nil
	}

	url, err := NewResolver(searchFn, discardLogger()).Resolve(context.Background(), "Acme", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if url != "" {
		t.Fatalf("tracking url should be skipped, got %q", url)
	}
}

func TestResolveBatchReturnsEntryPerNameWithFailuresBlank(t *testing.T) {
	searchFn := func(_ context.Context, query string, _ int64) ([]string, error) {
		if strings.Contains(query, "Broken") {
			return nil, errors.New("quota exceeded")
		}
		return []string{"https://found.example"}, nil
	}

	urls := NewResolver(searchFn, discardLogger()).ResolveBatch(
		context.Background(), []string{"Acme", "Broken", "Busy"}, "", 2, 0)

	if len(urls) != 3 {
		t.Fatalf("expected 3 entries, got %#v", urls)
	}
	if urls["Broken"] != "" {
		t.Fatalf("failed lookup should map to empty url, got %q", urls["Broken"])
	}
	if urls["Acme"] != "https://found.example" || urls["Busy"] != "https://found.example" {
		t.Fatalf("unexpected urls: %#v", urls)
	}
}
