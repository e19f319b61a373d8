package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"golang.org/x/net/html"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/scan"
)

// defaultDebounce is the quiet period after a mutation burst before the next
// scan wave. Results pages mutate in flurries; scanning mid-flurry wastes
// snapshots.
const defaultDebounce = 250 * time.Millisecond

// WatchOptions configures one page watch.
type WatchOptions struct {
	URL      string
	Session  *scan.Session
	Debounce time.Duration
	DumpDir  string
}

// Watch navigates to a page and keeps scanning it on DOM mutation until the
// context ends. The scan session outlives individual snapshots; markers left
// in the live DOM make reprocessing idempotent across waves.
func (d *Driver) Watch(ctx context.Context, opts WatchOptions) error {
	if opts.Session == nil {
		return fmt.Errorf("browser: watch needs a scan session")
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	tabCtx, cancel, err := d.newTab(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	mutated := make(chan struct{}, 1)
	chromedp.ListenTarget(tabCtx, func(ev any) {
		switch ev.(type) {
		case *dom.EventChildNodeInserted, *dom.EventChildNodeRemoved,
			*dom.EventChildNodeCountUpdated, *dom.EventDocumentUpdated:
			select {
			case mutated <- struct{}{}:
			default:
			}
		}
	})

	err = chromedp.Run(tabCtx,
		chromedp.Navigate(opts.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := dom.Enable().Do(ctx); err != nil {
				return err
			}
			// Mutation events only flow once the document is requested.
			_, err := dom.GetDocument().WithDepth(-1).Do(ctx)
			return err
		}),
		injectStyleSheet(),
	)
	if err != nil {
		return fmt.Errorf("browser: open %s: %w", opts.URL, err)
	}

	// First wave before any mutation arrives.
	d.scanWave(tabCtx, opts)

	for {
		select {
		case <-tabCtx.Done():
			hidden, dups := opts.Session.Stats()
			d.logger.Info("watch disposed", "hidden", hidden, "duplicates", dups)
			return nil
		case <-mutated:
			if !quietAfter(tabCtx, mutated, debounce) {
				continue
			}
			d.scanWave(tabCtx, opts)
		}
	}
}

// quietAfter drains mutation signals until none arrive for the debounce
// window. Returns false when the tab context ended while waiting.
func quietAfter(ctx context.Context, mutated <-chan struct{}, debounce time.Duration) bool {
	timer := time.NewTimer(debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-mutated:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
		case <-timer.C:
			return true
		}
	}
}

// scanWave snapshots the document, runs the scan session over it and applies
// new suppressions to the live page. Failures are logged; the watch loop
// must survive any single wave going wrong.
func (d *Driver) scanWave(ctx context.Context, opts WatchOptions) {
	var pageHTML string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery)); err != nil {
		d.logger.Warn("snapshot failed", "err", err)
		return
	}
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		d.logger.Warn("snapshot parse failed", "err", err)
		return
	}

	res := opts.Session.ProcessBatch(ctx, doc)
	if len(res.Applied) == 0 {
		return
	}

	mode := opts.Session.DisplayMode(ctx)
	marker := scan.MarkerValue(mode)
	if marker == "" {
		// Fail closed: nothing is marked in the live page either.
		d.logger.Error("refusing to mark live page", "mode", mode.String())
		return
	}
	for _, cand := range res.Applied {
		if err := markElement(ctx, cand.Path, marker); err != nil {
			d.logger.Warn("live mark failed", "pass", cand.Pass, "path", cand.Path, "err", err)
		}
	}
	d.logger.Debug("scan wave applied", "count", len(res.Applied), "mode", mode.String())

	if opts.DumpDir != "" {
		if err := d.dumpSnapshot(ctx, opts.DumpDir); err != nil {
			d.logger.Debug("debug snapshot failed", "err", err)
		}
	}
}
