package scan

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestModeCacheResolvesOnceUnderConcurrency(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	release := make(chan struct{})
	fetcher := ModeFetcherFunc(func(context.Context) (DisplayMode, error) {
		calls.Add(1)
		<-release
		return ModeHighlight, nil
	})
	c := NewDisplayModeCache(fetcher, ModeHide, time.Second)

	const callers = 16
	results := make([]DisplayMode, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Get(context.Background())
		}(i)
	}
	// Let all callers pile up on the in-flight fetch, then release it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("fetcher called %d times, want 1", n)
	}
	for i, got := range results {
		if got != ModeHighlight {
			t.Fatalf("caller %d observed %v, want %v", i, got, ModeHighlight)
		}
	}
}

func TestModeCacheErrorFallsBackAndCaches(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	fetcher := ModeFetcherFunc(func(context.Context) (DisplayMode, error) {
		calls.Add(1)
		return ModeUnknown, errors.New("relay down")
	})
	c := NewDisplayModeCache(fetcher, ModeHide, time.Second)

	if got := c.Get(context.Background()); got != ModeHide {
		t.Fatalf("Get = %v, want fallback %v", got, ModeHide)
	}
	// The failed resolution is cached: later elements must see the same
	// mode as earlier ones, not a differently resolved retry.
	if got := c.Get(context.Background()); got != ModeHide {
		t.Fatalf("second Get = %v, want %v", got, ModeHide)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("fetcher called %d times, want 1", n)
	}
}

func TestModeCacheTimeoutFallsBack(t *testing.T) {
	t.Parallel()
	fetcher := ModeFetcherFunc(func(ctx context.Context) (DisplayMode, error) {
		<-ctx.Done()
		return ModeUnknown, ctx.Err()
	})
	c := NewDisplayModeCache(fetcher, ModeHide, 20*time.Millisecond)

	start := time.Now()
	got := c.Get(context.Background())
	if got != ModeHide {
		t.Fatalf("Get = %v, want %v", got, ModeHide)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Get blocked %v, want bounded by fetch timeout", elapsed)
	}
}

func TestModeCacheInvalidateRefetches(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	fetcher := ModeFetcherFunc(func(context.Context) (DisplayMode, error) {
		if calls.Add(1) == 1 {
			return ModeHide, nil
		}
		return ModeHighlight, nil
	})
	c := NewDisplayModeCache(fetcher, ModeHide, time.Second)

	if got := c.Get(context.Background()); got != ModeHide {
		t.Fatalf("first Get = %v", got)
	}
	c.Invalidate()
	if got := c.Get(context.Background()); got != ModeHighlight {
		t.Fatalf("Get after Invalidate = %v, want %v", got, ModeHighlight)
	}
}
