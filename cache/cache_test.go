package cache

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestResolveCachesValue(t *testing.T) {
	c := NewResolutionCache[string, int]()

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected no entry before first resolve")
	}

	v, err := c.Resolve(context.Background(), "a", func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if v != 42 {
		t.Errorf("want 42, got %d", v)
	}

	got, ok := c.Get("a")
	if !ok || got != 42 {
		t.Errorf("want cached 42, got %d (ok=%v)", got, ok)
	}
}

func TestResolveSingleFlight(t *testing.T) {
	c := NewResolutionCache[string, string]()
	var fetches int32

	release := make(chan struct{})
	var wg sync.WaitGroup
	const n = 16
	results := make([]string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Resolve(context.Background(), "key", func(ctx context.Context) (string, error) {
				atomic.AddInt32(&fetches, 1)
				<-release
				return "value", nil
			})
			if err != nil {
				t.Errorf("resolve %d failed: %s", i, err)
				return
			}
			results[i] = v
		}(i)
	}

	// Wait until the one fetch is actually in flight before releasing it.
	for !c.Pending("key") {
		runtime.Gosched()
	}
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&fetches); got != 1 {
		t.Errorf("want exactly 1 fetch for %d concurrent resolves, got %d", n, got)
	}
	for i, r := range results {
		if r != "value" {
			t.Errorf("caller %d got %q, want %q", i, r, "value")
		}
	}
	if c.Pending("key") {
		t.Errorf("key still pending after all resolves returned")
	}
}

func TestResolveDoesNotRetainFailures(t *testing.T) {
	c := NewResolutionCache[string, int]()
	calls := 0

	_, err := c.Resolve(context.Background(), "k", func(ctx context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("boom")
	})
	if err == nil {
		t.Fatalf("expected fetch error")
	}
	if _, ok := c.Get("k"); ok {
		t.Fatalf("failed fetch must not leave an entry")
	}

	v, err := c.Resolve(context.Background(), "k", func(ctx context.Context) (int, error) {
		calls++
		return 7, nil
	})
	if err != nil {
		t.Fatalf("second resolve failed: %s", err)
	}
	if v != 7 || calls != 2 {
		t.Errorf("want retried fetch returning 7, got v=%d calls=%d", v, calls)
	}
}

func TestSlotRejectsStaleResults(t *testing.T) {
	s := NewSlot[string]()

	g1 := s.Begin()
	g2 := s.Begin()

	// g2's fetch finishes first.
	if !s.Apply(g2, "newer") {
		t.Fatalf("latest generation must apply")
	}
	// g1's slow fetch arrives afterwards and must be dropped.
	if s.Apply(g1, "older") {
		t.Fatalf("stale generation must not apply")
	}

	v, ok := s.Current()
	if !ok || v != "newer" {
		t.Errorf("slot should hold %q, got %q (ok=%v)", "newer", v, ok)
	}
}

func TestSlotInvalidate(t *testing.T) {
	s := NewSlot[int]()

	g1 := s.Begin()
	s.Apply(g1, 1)

	g2 := s.Begin()
	if s.Invalidate(g1) {
		t.Fatalf("stale generation must not invalidate")
	}
	if !s.Invalidate(g2) {
		t.Fatalf("latest generation must invalidate")
	}
	if _, ok := s.Current(); ok {
		t.Errorf("slot should be empty after invalidate")
	}
}
