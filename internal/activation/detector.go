// Package activation decides, on the companion-app side, whether the
// extension is currently running. There is no single reliable signal, so a
// capability query is tried first and a liveness heuristic second.
package activation

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// FreshnessWindow is how recent the last-active timestamp must be for the
// fallback path to call the extension active.
const FreshnessWindow = 5 * time.Minute

// State is the tri-valued activation answer. Unknown means both signals were
// unavailable; it is never guessed into true or false.
type State int

const (
	StateUnknown State = iota
	StateEnabled
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// ErrIndeterminate is returned by capability queriers whose platform exposes
// the query but cannot answer it for this extension.
var ErrIndeterminate = errors.New("activation: capability query indeterminate")

// CapabilityQuerier is the primary signal: the platform's extension-state
// query for a specific extension identifier.
type CapabilityQuerier interface {
	ExtensionState(ctx context.Context, extensionID string) (enabled bool, err error)
}

// TimestampSource is the secondary signal: the last-active timestamp the
// native host stamps whenever it handles a message.
type TimestampSource interface {
	LastActive() (t time.Time, ok bool, err error)
}

// Detector runs the hybrid check.
type Detector struct {
	ExtensionID string
	Querier     CapabilityQuerier
	Stamps      TimestampSource
	Window      time.Duration
	Logger      *slog.Logger
	Now         func() time.Time
}

// Check resolves the activation state. The primary query is terminal when it
// answers cleanly; otherwise the timestamp heuristic decides, and if the
// timestamp store is unreadable the answer is Unknown.
func (d *Detector) Check(ctx context.Context) State {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	window := d.Window
	if window <= 0 {
		window = FreshnessWindow
	}

	if d.Querier != nil {
		enabled, err := d.Querier.ExtensionState(ctx, d.ExtensionID)
		if err == nil {
			if enabled {
				return StateEnabled
			}
			return StateDisabled
		}
		logger.Debug("capability query unavailable, using timestamp fallback", "err", err)
	}

	if d.Stamps == nil {
		return StateUnknown
	}
	stamp, ok, err := d.Stamps.LastActive()
	if err != nil {
		logger.Debug("timestamp store unreadable", "err", err)
		return StateUnknown
	}
	if !ok {
		// Never stamped: the host has never handled a message.
		return StateDisabled
	}
	if now().Sub(stamp) <= window {
		return StateEnabled
	}
	return StateDisabled
}
