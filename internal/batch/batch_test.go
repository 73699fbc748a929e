package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunReturnsOneEntryPerItemDespiteFailures(t *testing.T) {
	items := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, fmt.Sprintf("business-%d", i))
	}
	failing := map[string]bool{
		"business-1": true,
		"business-3": true,
		"business-5": true,
		"business-7": true,
	}

	results := Run(context.Background(), items, func(_ context.Context, item string) (string, error) {
		if failing[item] {
			return "", errors.New("fetch failed")
		}
		return "ok:" + item, nil
	}, Options{Workers: 3})

	if len(results) != 10 {
		t.Fatalf("expected 10 result entries, got %d", len(results))
	}
	for _, item := range items {
		res, ok := results[item]
		if !ok {
			t.Fatalf("missing result for %s", item)
		}
		if failing[item] && res.Err == nil {
			t.Fatalf("expected error entry for %s", item)
		}
		if !failing[item] && (res.Err != nil || res.Value != "ok:"+item) {
			t.Fatalf("unexpected result for %s: %#v", item, res)
		}
	}
}

func TestRunCapturesPanicsAsItemErrors(t *testing.T) {
	results := Run(context.Background(), []int{1, 2, 3}, func(_ context.Context, item int) (int, error) {
		if item == 2 {
			panic("boom")
		}
		return item * 10, nil
	}, Options{Workers: 2})

	if len(results) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(results))
	}
	if results[2].Err == nil || !strings.Contains(results[2].Err.Error(), "boom") {
		t.Fatalf("panic not captured: %#v", results[2])
	}
	if results[1].Value != 10 || results[3].Value != 30 {
		t.Fatalf("sibling results affected: %#v", results)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var active, peak int64
	var mu sync.Mutex

	Run(context.Background(), []int{1, 2, 3, 4, 5, 6, 7, 8}, func(_ context.Context, item int) (int, error) {
		current := atomic.AddInt64(&active, 1)
		mu.Lock()
		if current > peak {
			peak = current
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&active, -1)
		return item, nil
	}, Options{Workers: 3})

	mu.Lock()
	defer mu.Unlock()
	if peak > 3 {
		t.Fatalf("worker bound exceeded: peak concurrency %d", peak)
	}
	if peak < 2 {
		t.Fatalf("pool did not run concurrently: peak %d", peak)
	}
}

func TestRunEmptyItems(t *testing.T) {
	results := Run(context.Background(), nil, func(_ context.Context, item string) (string, error) {
		t.Fatal("worker must not run")
		return "", nil
	}, Options{Workers: 4})

	if len(results) != 0 {
		t.Fatalf("expected no entries, got %d", len(results))
	}
}
