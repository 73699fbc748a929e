// Package search resolves a business name to its official website using
// Google Custom Search, filtering out directory and social listings.
package search

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/octobees/leads-scraper/internal/batch"
)

// directoryDomains host business listings rather than official sites and are
// never returned as a resolved website.
var directoryDomains = []string{
	"yelp.com", "yellowpages.com", "tripadvisor.com", "facebook.com",
	"linkedin.com", "twitter.com", "instagram.com", "pinterest.com",
	"angieslist.com", "homeadvisor.com", "thumbtack.com", "bbb.org",
	"glassdoor.com", "indeed.com", "crunchbase.com", "zoominfo.com",
	"manta.com", "foursquare.com", "citysearch.com",
}

// trackingFragments mark ad or redirect URLs that never point at the site
// itself.
var trackingFragments = []string{"/ad/", "/track/", "/redirect"}

// SearchFunc issues one search query and returns ranked result URLs.
type SearchFunc func(ctx context.Context, query string, num int64) ([]string, error)

// NewGoogleSearch builds a SearchFunc backed by the Custom Search JSON API.
func NewGoogleSearch(ctx context.Context, apiKey, engineID string) (SearchFunc, error) {
	if apiKey == "" || engineID == "" {
		return nil, fmt.Errorf("google search requires an API key and search engine id")
	}

	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create customsearch service: %w", err)
	}

	return func(ctx context.Context, query string, num int64) ([]string, error) {
		if num > 10 {
			num = 10 // API limit per request
		}
		resp, err := svc.Cse.List().Q(query).Cx(engineID).Num(num).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("custom search: %w", err)
		}
		links := make([]string, 0, len(resp.Items))
		for _, item := range resp.Items {
			links = append(links, item.Link)
		}
		return links, nil
	}, nil
}

// Resolver finds official websites for business names.
type Resolver struct {
	search SearchFunc
	logger *log.Logger
}

// NewResolver wires a resolver around any SearchFunc.
func NewResolver(search SearchFunc, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(log.Writer(), "search: ", log.LstdFlags)
	}
	return &Resolver{search: search, logger: logger}
}

// Resolve searches for the business and returns the best candidate URL, or
// "" when nothing usable was found. Directory sites and tracking URLs are
// skipped; a result whose domain contains the business name is preferred.
func (r *Resolver) Resolve(ctx context.Context, businessName, location string) (string, error) {
	query := buildQuery(businessName, location)
	results, err := r.search(ctx, query, 5)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", businessName, err)
	}

	resolved := pickOfficialURL(results, businessName)
	if resolved == "" {
		r.logger.Printf("no official URL found for %s", businessName)
	}
	return resolved, nil
}

// ResolveBatch resolves many names through the shared batch coordinator and
// returns an entry for every name; failed lookups map to "".
func (r *Resolver) ResolveBatch(ctx context.Context, names []string, location string, workers int, delay time.Duration) map[string]string {
	results := batch.Run(ctx, names, func(ctx context.Context, name string) (string, error) {
		return r.Resolve(ctx, name, location)
	}, batch.Options{Workers: workers, Delay: delay})

	urls := make(map[string]string, len(results))
	for name, res := range results {
		if res.Err != nil {
			r.logger.Printf("url resolution failed for %s: %v", name, res.Err)
			urls[name] = ""
			continue
		}
		urls[name] = res.Value
	}
	return urls
}

func buildQuery(businessName, location string) string {
	query := fmt.Sprintf("%q", businessName)
	if location != "" {
		query += fmt.Sprintf(" %q", location)
	}
	return query + " official website"
}

// pickOfficialURL prefers a non-directory result mentioning the business
// name, then falls back to the first non-directory result.
func pickOfficialURL(results []string, businessName string) string {
	nameLower := strings.ToLower(businessName)

	for _, candidate := range results {
		domain, ok := usableDomain(candidate)
		if !ok {
			continue
		}
		if strings.Contains(domain, nameLower) || strings.Contains(strings.ToLower(candidate), nameLower) {
			return candidate
		}
	}

	for _, candidate := range results {
		if _, ok := usableDomain(candidate); ok {
			return candidate
		}
	}
	return ""
}

func usableDomain(candidate string) (string, bool) {
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Host == "" {
		return "", false
	}
	domain := strings.ToLower(parsed.Host)

	for _, directory := range directoryDomains {
		if strings.Contains(domain, directory) {
			return "", false
		}
	}
	lower := strings.ToLower(candidate)
	for _, fragment := range trackingFragments {
		if strings.Contains(lower, fragment) {
			return "", false
		}
	}
	return domain, true
}
