// Package proxy provides a thread-safe rotating proxy pool for the fetch
// layer. The pool is advisory: callers must work fine when it is empty.
package proxy

import (
	"strings"
	"sync"
)

// Pool hands out proxies round-robin, skipping ones marked bad. Safe for
// concurrent use.
type Pool struct {
	mu      sync.Mutex
	proxies []string
	next    int
	bad     map[string]struct{}
}

// NewPool builds a pool from the given proxy URLs; blank entries are dropped.
func NewPool(proxies []string) *Pool {
	cleaned := make([]string, 0, len(proxies))
	for _, p := range proxies {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return &Pool{proxies: cleaned, bad: make(map[string]struct{})}
}

// Next returns the next healthy proxy, or "" when none is available.
func (p *Pool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	for range p.proxies {
		candidate := p.proxies[p.next%len(p.proxies)]
		p.next++
		if _, broken := p.bad[candidate]; !broken {
			return candidate
		}
	}
	return ""
}

// MarkBad removes a proxy from rotation.
func (p *Pool) MarkBad(proxyURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bad[proxyURL] = struct{}{}
}

// Healthy reports how many proxies remain in rotation.
func (p *Pool) Healthy() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.proxies) - len(p.bad)
}
