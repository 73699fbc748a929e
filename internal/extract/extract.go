// Package extract pulls business names out of listing pages using CSS
// selectors. Dynamic listing pages that need a browser are handled by an
// external retrieval layer; this package only sees fetched HTML.
package extract

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSelectors cover the common markup of business directory pages.
var DefaultSelectors = []string{".business-name", ".company-name", "h2", "h3"}

// Fetcher retrieves a page's HTML.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor extracts business names from listing pages.
type Extractor struct {
	fetcher Fetcher
	logger  *log.Logger
}

// New wires an extractor.
func New(fetcher Fetcher, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.New(log.Writer(), "extract: ", log.LstdFlags)
	}
	return &Extractor{fetcher: fetcher, logger: logger}
}

// ExtractNames fetches the listing page and returns the distinct texts of
// elements matching the selectors, in discovery order. Entries shorter than
// three characters are discarded as navigation noise. A nil selector list
// falls back to DefaultSelectors.
func (e *Extractor) ExtractNames(ctx context.Context, listingURL string, selectors []string) ([]string, error) {
	if len(selectors) == 0 {
		selectors = DefaultSelectors
	}

	html, err := e.fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	seen := make(map[string]struct{})
	var names []string
	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			name := strings.TrimSpace(sel.Text())
			if len(name) <= 2 {
				return
			}
			if _, dup := seen[name]; dup {
				return
			}
			seen[name] = struct{}{}
			names = append(names, name)
		})
	}

	e.logger.Printf("extracted %d business names from %s", len(names), listingURL)
	return names, nil
}
