package scan

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultFetchTimeout = 3 * time.Second

// ModeFetcher resolves the display mode from the host context, typically by
// sending get_display_mode through the relay.
type ModeFetcher interface {
	FetchDisplayMode(ctx context.Context) (DisplayMode, error)
}

// ModeFetcherFunc adapts a function to ModeFetcher.
type ModeFetcherFunc func(ctx context.Context) (DisplayMode, error)

// FetchDisplayMode implements ModeFetcher.
func (f ModeFetcherFunc) FetchDisplayMode(ctx context.Context) (DisplayMode, error) {
	return f(ctx)
}

// DisplayModeCache resolves the preference at most once per page session.
// Concurrent callers before the first resolution share a single in-flight
// fetch, so elements processed before and after resolution always get the
// same mode. A failed or timed-out fetch resolves to the configured default
// and is cached too, for the same reason.
type DisplayModeCache struct {
	fetcher  ModeFetcher
	fallback DisplayMode
	timeout  time.Duration

	group singleflight.Group
	mu    sync.RWMutex
	mode  DisplayMode
	set   bool
}

// NewDisplayModeCache wires a cache around a fetcher. A zero timeout means
// the default fetch timeout.
func NewDisplayModeCache(f ModeFetcher, fallback DisplayMode, timeout time.Duration) *DisplayModeCache {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &DisplayModeCache{fetcher: f, fallback: fallback, timeout: timeout}
}

// Get returns the session's display mode, fetching it on first use.
func (c *DisplayModeCache) Get(ctx context.Context) DisplayMode {
	c.mu.RLock()
	if c.set {
		mode := c.mode
		c.mu.RUnlock()
		return mode
	}
	c.mu.RUnlock()

	v, _, _ := c.group.Do("display_mode", func() (any, error) {
		fctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		mode, err := c.fetcher.FetchDisplayMode(fctx)
		if err != nil || mode == ModeUnknown {
			mode = c.fallback
		}
		c.mu.Lock()
		c.mode = mode
		c.set = true
		c.mu.Unlock()
		return mode, nil
	})
	return v.(DisplayMode)
}

// Invalidate drops the cached value so the next Get re-fetches. Supports the
// refresh-display-mode message.
func (c *DisplayModeCache) Invalidate() {
	c.mu.Lock()
	c.set = false
	c.mu.Unlock()
}
