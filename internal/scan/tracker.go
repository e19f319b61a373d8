package scan

import "golang.org/x/net/html"

// ElementTracker is an identity-based membership set over document nodes. It
// holds node pointers only, never content, and lives for one page session.
type ElementTracker struct {
	seen map[*html.Node]struct{}
}

// NewElementTracker returns an empty tracker.
func NewElementTracker() *ElementTracker {
	return &ElementTracker{seen: make(map[*html.Node]struct{})}
}

// Seen reports whether the node was already processed.
func (t *ElementTracker) Seen(n *html.Node) bool {
	_, ok := t.seen[n]
	return ok
}

// Add records a node as processed. Adding twice is a no-op.
func (t *ElementTracker) Add(n *html.Node) {
	t.seen[n] = struct{}{}
}

// Len reports how many distinct nodes were processed.
func (t *ElementTracker) Len() int { return len(t.seen) }

// Reset drops all membership, as on a full page reload.
func (t *ElementTracker) Reset() {
	t.seen = make(map[*html.Node]struct{})
}
