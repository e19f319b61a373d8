package scan

import (
	"context"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/catalog"
)

// SessionConfig wires one page session. Catalog and Modes are required; a
// nil Reporter disables stats forwarding.
type SessionConfig struct {
	Catalog  *catalog.Catalog
	Modes    *DisplayModeCache
	Reporter *StatsReporter
	Logger   *slog.Logger
}

// Session is the per-page scan state: engine, processed-element registry,
// counters and the resolved display mode. It is constructed explicitly so
// the session boundary is testable; nothing here is process-global.
type Session struct {
	engine   *Engine
	tracker  *ElementTracker
	modes    *DisplayModeCache
	policy   Policy
	reporter *StatsReporter
	logger   *slog.Logger

	hidden     int
	duplicates int
}

// NewSession builds a session for one page lifetime.
func NewSession(cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		engine:   NewEngine(cfg.Catalog, logger),
		tracker:  NewElementTracker(),
		modes:    cfg.Modes,
		reporter: cfg.Reporter,
		logger:   logger,
	}
}

// Engine exposes the session's classification engine.
func (s *Session) Engine() *Engine { return s.engine }

// DisplayMode resolves the session's display mode through the cache.
func (s *Session) DisplayMode(ctx context.Context) DisplayMode {
	return s.modes.Get(ctx)
}

// BatchResult summarizes one mutation batch.
type BatchResult struct {
	Applied    []Candidate
	Duplicates int
}

// Stats reports the session counters.
func (s *Session) Stats() (hidden, duplicates int) {
	return s.hidden, s.duplicates
}

// ProcessBatch re-evaluates the detection passes against the current tree.
// Candidates already processed only advance the duplicate counter; new ones
// are suppressed per the session display mode and registered. A failure on
// one candidate is logged and the rest of the batch continues.
func (s *Session) ProcessBatch(ctx context.Context, doc *html.Node) BatchResult {
	var res BatchResult
	root := s.engine.ContentRoot(doc)
	if root == nil {
		// Page not rendered yet.
		return res
	}

	candidates := s.engine.Evaluate(root)
	if len(candidates) == 0 {
		return res
	}
	mode := s.modes.Get(ctx)

	for _, cand := range candidates {
		// A marker attribute means a previous wave already handled this
		// element; snapshots of the live page carry those markers even
		// though the re-parsed node pointer is new.
		if s.tracker.Seen(cand.Node) || Marker(cand.Node) != "" {
			s.duplicates++
			res.Duplicates++
			continue
		}
		if err := s.policy.Apply(cand.Node, mode); err != nil {
			s.logger.Error("suppression failed, leaving element visible",
				"pass", cand.Pass, "path", cand.Path, "mode", mode.String(), "err", err)
			continue
		}
		s.tracker.Add(cand.Node)
		s.hidden++
		res.Applied = append(res.Applied, cand)
		s.logger.Debug("element suppressed", "pass", cand.Pass, "locale", cand.Locale, "mode", mode.String())
	}

	if s.reporter != nil && (len(res.Applied) > 0 || res.Duplicates > 0) {
		s.reporter.MaybeReport(ctx, s.hidden, s.duplicates)
	}
	return res
}
