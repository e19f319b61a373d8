package scan

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/relay"
)

type captureSender struct {
	sent []relay.StatsPayload
	err  error
}

func (c *captureSender) Send(_ context.Context, t relay.MessageType, payload any) (json.RawMessage, error) {
	if c.err != nil {
		return nil, c.err
	}
	if t != relay.TypeExtensionStats {
		return nil, errors.New("unexpected type")
	}
	c.sent = append(c.sent, payload.(relay.StatsPayload))
	return json.RawMessage(`{"ok":true}`), nil
}

func TestReporterThrottles(t *testing.T) {
	t.Parallel()
	now := time.Unix(1000, 0)
	clock := func() time.Time { return now }
	sender := &captureSender{}
	r := NewStatsReporter(sender, 10*time.Second, "https://www.google.com/search?q=x", quietLogger(), clock)

	if !r.MaybeReport(context.Background(), 1, 0) {
		t.Fatal("first report should send")
	}
	if r.MaybeReport(context.Background(), 2, 0) {
		t.Fatal("second report inside interval should be throttled")
	}
	now = now.Add(11 * time.Second)
	if !r.MaybeReport(context.Background(), 3, 1) {
		t.Fatal("report after interval should send")
	}

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d reports, want 2", len(sender.sent))
	}
	last := sender.sent[1]
	if last.Hidden != 3 || last.Duplicates != 1 || last.URL == "" {
		t.Fatalf("last payload = %+v", last)
	}
}

func TestReporterSwallowsRelayFailure(t *testing.T) {
	t.Parallel()
	sender := &captureSender{err: errors.New("host gone")}
	r := NewStatsReporter(sender, time.Minute, "", quietLogger(), nil)
	// Must not panic or propagate; the scan loop depends on that.
	if !r.MaybeReport(context.Background(), 1, 0) {
		t.Fatal("attempt expected")
	}
	if r.MaybeReport(context.Background(), 1, 0) {
		t.Fatal("failed attempt must still advance the throttle window")
	}
}

func TestReporterFlushIgnoresThrottle(t *testing.T) {
	t.Parallel()
	sender := &captureSender{}
	r := NewStatsReporter(sender, time.Hour, "", quietLogger(), nil)
	r.MaybeReport(context.Background(), 1, 0)
	r.Flush(context.Background(), 5, 2)
	if len(sender.sent) != 2 {
		t.Fatalf("sent %d, want 2", len(sender.sent))
	}
}
