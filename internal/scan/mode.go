// Package scan is the mutation-driven engine that classifies and suppresses
// AI-generated content regions in a parsed document tree.
package scan

import "strings"

// DisplayMode is the user preference controlling suppression treatment.
type DisplayMode int

const (
	ModeUnknown DisplayMode = iota
	ModeHide
	ModeHighlight
)

// ParseDisplayMode maps the persisted preference string to a mode.
func ParseDisplayMode(s string) (DisplayMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hide", "hidden":
		return ModeHide, true
	case "highlight":
		return ModeHighlight, true
	}
	return ModeUnknown, false
}

func (m DisplayMode) String() string {
	switch m {
	case ModeHide:
		return "hide"
	case ModeHighlight:
		return "highlight"
	default:
		return "unknown"
	}
}
