package scan

import (
	"log/slog"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/catalog"
)

// Pass names one of the four detection strategies.
type Pass string

const (
	PassHeading  Pass = "heading"
	PassQuestion Pass = "question"
	PassCard     Pass = "card"
	PassTab      Pass = "tab"
)

// Candidate is a DOM node resolved by a detection pass as a suppression
// target. Path addresses the same node in the live document.
type Candidate struct {
	Node   *html.Node
	Pass   Pass
	Locale string
	Path   string
}

var (
	// Results pages render into one of these containers depending on layout
	// generation. Absence means the page has not finished rendering.
	containerSel = cascadia.MustCompile("#main, #center_col, #rcnt")

	headingSel = cascadia.MustCompile("h1, h2")

	// Structural signatures for the heading ancestor walk. The first
	// non-nil of parent / primary / secondary wins, with no validation that
	// it encloses the heading's sibling content; these selectors have been
	// revised repeatedly against live markup changes and none is canonical.
	ancestorPrimarySel   = cascadia.MustCompile("div#m-x-content")
	ancestorSecondarySel = cascadia.MustCompile("div.M8OgIe")

	questionLeafSel = cascadia.MustCompile("related-question-pair, div.related-question-pair")
	cardSel         = cascadia.MustCompile("ai-overview-inline-card")
	tabSel          = cascadia.MustCompile(`[role="tab"]`)
)

// questionAncestorLevels is how far above a related-question leaf the
// suppressible block sits.
const questionAncestorLevels = 4

// Engine classifies candidate elements in a document tree. It holds no
// per-session state; Session layers tracking and suppression on top.
type Engine struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewEngine builds an engine over a pattern catalog.
func NewEngine(cat *catalog.Catalog, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{catalog: cat, logger: logger}
}

// ContentRoot locates the main results container, or nil when the page has
// not rendered it yet.
func (e *Engine) ContentRoot(doc *html.Node) *html.Node {
	if doc == nil {
		return nil
	}
	return containerSel.MatchFirst(doc)
}

// Evaluate runs the four detection passes against a subtree and returns the
// resolved candidates in pass order. A failure inside one pass is logged and
// does not abort the others.
func (e *Engine) Evaluate(root *html.Node) []Candidate {
	if root == nil {
		return nil
	}
	var out []Candidate
	passes := []struct {
		name Pass
		run  func(*html.Node) []Candidate
	}{
		{PassHeading, e.headingPass},
		{PassQuestion, e.questionPass},
		{PassCard, e.cardPass},
		{PassTab, e.tabPass},
	}
	for _, p := range passes {
		cands, err := e.runPass(p.name, p.run, root)
		if err != nil {
			e.logger.Error("detection pass failed", "pass", p.name, "err", err)
			continue
		}
		out = append(out, cands...)
	}
	return out
}

// runPass isolates a pass so a panic on one malformed subtree never detaches
// observation or kills the batch.
func (e *Engine) runPass(name Pass, run func(*html.Node) []Candidate, root *html.Node) (cands []Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &passPanicError{pass: name, value: r}
		}
	}()
	return run(root), nil
}

type passPanicError struct {
	pass  Pass
	value any
}

func (e *passPanicError) Error() string {
	return "pass " + string(e.pass) + " panicked"
}

// headingPass matches h1/h2 text against the heading and people-also-ask
// catalogs and resolves each hit's suppression container via the ancestor
// fallback chain.
func (e *Engine) headingPass(root *html.Node) []Candidate {
	var out []Candidate
	for _, h := range headingSel.MatchAll(root) {
		text := nodeText(h)
		locale, ok := e.catalog.MatchLocale(catalog.CategoryHeading, text)
		if !ok {
			locale, ok = e.catalog.MatchLocale(catalog.CategoryPeopleAlsoAsk, text)
		}
		if !ok {
			continue
		}
		target := resolveHeadingContainer(h)
		if target == nil {
			continue
		}
		out = append(out, Candidate{Node: target, Pass: PassHeading, Locale: locale, Path: NodePath(target)})
	}
	return out
}

// resolveHeadingContainer walks up from a matched heading: immediate parent,
// then the nearest ancestor matching each structural signature in order.
// First non-nil wins.
func resolveHeadingContainer(h *html.Node) *html.Node {
	if p := h.Parent; p != nil && p.Type == html.ElementNode {
		return p
	}
	if a := closestAncestor(h, ancestorPrimarySel); a != nil {
		return a
	}
	return closestAncestor(h, ancestorSecondarySel)
}

func closestAncestor(n *html.Node, sel cascadia.Selector) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && sel.Match(p) {
			return p
		}
	}
	return nil
}

// questionPass targets related-question leaves; the suppressed unit sits a
// fixed number of ancestor levels up. An incomplete chain skips the leaf.
func (e *Engine) questionPass(root *html.Node) []Candidate {
	var out []Candidate
	for _, leaf := range questionLeafSel.MatchAll(root) {
		target := leaf
		complete := true
		for i := 0; i < questionAncestorLevels; i++ {
			target = target.Parent
			if target == nil || target.Type != html.ElementNode {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		out = append(out, Candidate{Node: target, Pass: PassQuestion, Path: NodePath(target)})
	}
	return out
}

// cardPass targets AI inline-card custom elements; the suppressed unit is
// the immediate parent.
func (e *Engine) cardPass(root *html.Node) []Candidate {
	var out []Candidate
	for _, card := range cardSel.MatchAll(root) {
		p := card.Parent
		if p == nil || p.Type != html.ElementNode {
			continue
		}
		out = append(out, Candidate{Node: p, Pass: PassCard, Path: NodePath(p)})
	}
	return out
}

// tabPass targets ARIA tabs whose label matches the AI-mode catalog.
func (e *Engine) tabPass(root *html.Node) []Candidate {
	var out []Candidate
	for _, tab := range tabSel.MatchAll(root) {
		locale, ok := e.catalog.MatchLocale(catalog.CategoryTabLabel, nodeText(tab))
		if !ok {
			continue
		}
		out = append(out, Candidate{Node: tab, Pass: PassTab, Locale: locale, Path: NodePath(tab)})
	}
	return out
}

// nodeText concatenates the text content of a subtree with whitespace
// collapsed, mirroring what a user-visible label reads as.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
