// Package fetch retrieves page HTML for the scraping stages. It owns the
// browser-style headers, the politeness rate limit and optional proxy
// rotation; callers only see html-or-error.
package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a page is read.
const maxBodyBytes = 10 * 1024 * 1024

// userAgents is rotated per request to look like ordinary browser traffic.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
}

// ProxySource hands out proxy URLs. Implementations may return "" when no
// proxy is available; that is not an error.
type ProxySource interface {
	Next() string
}

// Options configures a Client.
type Options struct {
	Timeout time.Duration
	// RequestsPerSecond throttles outgoing fetches across all callers of
	// this client. Zero disables throttling.
	RequestsPerSecond float64
	Proxies           ProxySource
}

// Client fetches pages over HTTP.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient builds a fetch client. A nil or empty proxy source means direct
// connections; an unparseable proxy also falls back to direct rather than
// failing the request.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		Proxy: func(*http.Request) (*url.URL, error) {
			if opts.Proxies == nil {
				return nil, nil
			}
			raw := opts.Proxies.Next()
			if raw == "" {
				return nil, nil
			}
			proxyURL, err := url.Parse(raw)
			if err != nil {
				return nil, nil
			}
			return proxyURL, nil
		},
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		client:  &http.Client{Timeout: timeout, Transport: transport},
		limiter: limiter,
	}
}

// Fetch retrieves pageURL and returns its body. Non-2xx responses are
// errors; the caller decides whether that is fatal for its item.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", pageURL, err)
	}
	return string(body), nil
}
