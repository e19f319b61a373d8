package scan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// ErrUnknownMode is returned when suppression is requested with a mode
// outside the known set. The element is left untouched: fail closed means
// the content stays visible.
var ErrUnknownMode = errors.New("scan: unknown display mode")

// MarkerAttr tags suppressed elements so repeated styling is detectable and
// reversible. Values: "hidden" or "highlight".
const MarkerAttr = "data-rmaio"

// priorDisplayAttr records the element's inline display value before a hide,
// so the transformation can be undone.
const priorDisplayAttr = "data-rmaio-prior-display"

// overlayClass names the translucent layer added over highlighted elements.
const overlayClass = "rmaio-overlay"

// StyleSheet is the rule set the live-page driver injects once per document.
// Hide removes the element from layout; highlight outlines it and floats a
// translucent overlay without altering flow.
const StyleSheet = `[` + MarkerAttr + `="hidden"]{display:none !important}
[` + MarkerAttr + `="highlight"]{outline:2px solid #c5221f !important;position:relative !important}
[` + MarkerAttr + `="highlight"]::after{content:"";position:absolute;inset:0;background:rgba(251,188,5,0.18);pointer-events:none}
.` + overlayClass + `{position:absolute;inset:0;background:rgba(251,188,5,0.18);pointer-events:none;z-index:2147483646}`

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// inlineDisplay extracts the display declaration from an inline style
// attribute. A parse failure reads as "no prior value"; it must not make the
// suppression itself fail.
func inlineDisplay(style string) string {
	if strings.TrimSpace(style) == "" {
		return ""
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return ""
	}
	for _, d := range decls {
		if strings.EqualFold(d.Property, "display") {
			return d.Value
		}
	}
	return ""
}

// withDeclaration rebuilds an inline style with one property forced to a
// value, dropping any previous declaration of the same property.
func withDeclaration(style, property, value string) string {
	var parts []string
	if decls, err := parser.ParseDeclarations(style); err == nil {
		for _, d := range decls {
			if strings.EqualFold(d.Property, property) {
				continue
			}
			s := d.Property + ": " + d.Value
			if d.Important {
				s += " !important"
			}
			parts = append(parts, s)
		}
	}
	parts = append(parts, property+": "+value)
	return strings.Join(parts, "; ")
}

// Policy applies the reversible visual transformation for a display mode.
type Policy struct{}

// Apply suppresses one element per the mode. Unknown modes mutate nothing
// and return ErrUnknownMode.
func (Policy) Apply(n *html.Node, mode DisplayMode) error {
	if n == nil || n.Type != html.ElementNode {
		return fmt.Errorf("scan: suppress target is not an element")
	}
	switch mode {
	case ModeHide:
		style := getAttr(n, "style")
		if prior := inlineDisplay(style); prior != "" {
			setAttr(n, priorDisplayAttr, prior)
		}
		setAttr(n, "style", withDeclaration(style, "display", "none !important"))
		setAttr(n, MarkerAttr, "hidden")
		return nil
	case ModeHighlight:
		style := getAttr(n, "style")
		style = withDeclaration(style, "outline", "2px solid #c5221f")
		style = withDeclaration(style, "position", "relative")
		setAttr(n, "style", style)
		setAttr(n, MarkerAttr, "highlight")
		if !hasOverlay(n) {
			n.AppendChild(newOverlay())
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
}

// Marker reports the suppression marker currently on the element, if any.
func Marker(n *html.Node) string { return getAttr(n, MarkerAttr) }

// MarkerValue is the marker attribute value the stylesheet keys on for a
// mode, or "" for an unrecognized mode.
func MarkerValue(m DisplayMode) string {
	switch m {
	case ModeHide:
		return "hidden"
	case ModeHighlight:
		return "highlight"
	default:
		return ""
	}
}

func hasOverlay(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && strings.Contains(getAttr(c, "class"), overlayClass) {
			return true
		}
	}
	return false
}

func newOverlay() *html.Node {
	return &html.Node{
		Type: html.ElementNode,
		Data: "div",
		Attr: []html.Attribute{
			{Key: "class", Val: overlayClass},
			{Key: "style", Val: "position: absolute; inset: 0; background: rgba(251,188,5,0.18); pointer-events: none"},
		},
	}
}
