package scan

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/relay"
)

// DefaultReportInterval is the minimum spacing between stats reports. Bursty
// mutation activity must not flood the relay.
const DefaultReportInterval = 10 * time.Second

// Sender is the slice of the relay broker the reporter needs.
type Sender interface {
	Send(ctx context.Context, t relay.MessageType, payload any) (json.RawMessage, error)
}

// StatsReporter forwards hidden/duplicate counters through the relay, at
// most once per interval. Relay failures are logged and swallowed; reporting
// is never allowed to disturb the scan loop.
type StatsReporter struct {
	sender   Sender
	interval time.Duration
	url      string
	logger   *slog.Logger
	clock    func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewStatsReporter wires a reporter. Zero interval means the default; nil
// clock means time.Now.
func NewStatsReporter(sender Sender, interval time.Duration, url string, logger *slog.Logger, clock func() time.Time) *StatsReporter {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsReporter{sender: sender, interval: interval, url: url, logger: logger, clock: clock}
}

// MaybeReport sends current counters if the minimum interval has elapsed.
// Returns whether a report was attempted.
func (r *StatsReporter) MaybeReport(ctx context.Context, hidden, duplicates int) bool {
	r.mu.Lock()
	now := r.clock()
	if !r.last.IsZero() && now.Sub(r.last) < r.interval {
		r.mu.Unlock()
		return false
	}
	// Advance the window on the attempt, not the outcome, so a dead relay
	// is retried at the throttled rate rather than on every batch.
	r.last = now
	r.mu.Unlock()

	r.report(ctx, hidden, duplicates)
	return true
}

// Flush reports unconditionally, for session teardown.
func (r *StatsReporter) Flush(ctx context.Context, hidden, duplicates int) {
	r.report(ctx, hidden, duplicates)
}

func (r *StatsReporter) report(ctx context.Context, hidden, duplicates int) {
	payload := relay.StatsPayload{Hidden: hidden, Duplicates: duplicates, URL: r.url}
	raw, err := r.sender.Send(ctx, relay.TypeExtensionStats, payload)
	if err != nil {
		r.logger.Warn("stats report failed", "err", err)
		return
	}
	if msg, isErr := relay.AsError(raw); isErr {
		r.logger.Warn("stats report rejected", "err", msg)
	}
}
