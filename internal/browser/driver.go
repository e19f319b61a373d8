// Package browser drives a live search-results page over the DevTools
// protocol: it observes DOM mutations, feeds snapshots to the scan engine
// and applies suppression decisions back into the page.
package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"
)

// Driver owns a browser allocator shared by page sessions.
type Driver struct {
	allocator context.Context
	cancel    context.CancelFunc
	logger    *slog.Logger
}

// NewDriver starts a headless browser allocator.
func NewDriver(logger *slog.Logger) (*Driver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-extensions", true),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &Driver{allocator: allocCtx, cancel: cancel, logger: logger}, nil
}

// Close tears the allocator down.
func (d *Driver) Close() {
	if d.cancel != nil {
		d.cancel()
	}
}

// newTab derives a page context bound to the caller context for
// cancellation.
func (d *Driver) newTab(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if d.allocator == nil {
		return nil, nil, fmt.Errorf("browser: driver closed")
	}
	tabCtx, cancelTab := chromedp.NewContext(d.allocator)
	if ctx == nil {
		return tabCtx, cancelTab, nil
	}
	boundCtx, cancelBound := context.WithCancel(tabCtx)
	go func() {
		select {
		case <-ctx.Done():
			cancelBound()
		case <-boundCtx.Done():
		}
	}()
	cancel := func() {
		cancelBound()
		cancelTab()
	}
	return boundCtx, cancel, nil
}
