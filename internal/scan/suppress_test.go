package scan

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func elem(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, Attr: attrs}
}

func TestHideRecordsPriorDisplay(t *testing.T) {
	t.Parallel()
	n := elem("div", html.Attribute{Key: "style", Val: "display: flex; color: red"})
	if err := (Policy{}).Apply(n, ModeHide); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := getAttr(n, priorDisplayAttr); got != "flex" {
		t.Fatalf("prior display = %q, want flex", got)
	}
	style := getAttr(n, "style")
	if !strings.Contains(style, "display: none") {
		t.Fatalf("style = %q, want display none", style)
	}
	if !strings.Contains(style, "color: red") {
		t.Fatalf("style = %q, other declarations must survive", style)
	}
	if strings.Contains(style, "flex") {
		t.Fatalf("style = %q, old display value must be replaced", style)
	}
	if Marker(n) != "hidden" {
		t.Fatalf("marker = %q", Marker(n))
	}
}

func TestHideWithoutPriorStyle(t *testing.T) {
	t.Parallel()
	n := elem("div")
	if err := (Policy{}).Apply(n, ModeHide); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := getAttr(n, priorDisplayAttr); got != "" {
		t.Fatalf("prior display = %q, want unset", got)
	}
	if !strings.Contains(getAttr(n, "style"), "display: none") {
		t.Fatalf("style = %q", getAttr(n, "style"))
	}
}

func TestHighlightKeepsLayout(t *testing.T) {
	t.Parallel()
	n := elem("div")
	if err := (Policy{}).Apply(n, ModeHighlight); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	style := getAttr(n, "style")
	if strings.Contains(style, "display") {
		t.Fatalf("highlight must not touch display: %q", style)
	}
	if !strings.Contains(style, "outline") || !strings.Contains(style, "position: relative") {
		t.Fatalf("style = %q", style)
	}
	if !hasOverlay(n) {
		t.Fatal("overlay layer missing")
	}
	if Marker(n) != "highlight" {
		t.Fatalf("marker = %q", Marker(n))
	}
}

func TestHighlightOverlayNotDuplicated(t *testing.T) {
	t.Parallel()
	n := elem("div")
	p := Policy{}
	if err := p.Apply(n, ModeHighlight); err != nil {
		t.Fatal(err)
	}
	if err := p.Apply(n, ModeHighlight); err != nil {
		t.Fatal(err)
	}
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if strings.Contains(getAttr(c, "class"), overlayClass) {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("overlay count = %d, want 1", count)
	}
}

func TestUnknownModeLeavesElementUntouched(t *testing.T) {
	t.Parallel()
	n := elem("div", html.Attribute{Key: "style", Val: "color: blue"})
	err := (Policy{}).Apply(n, DisplayMode(7))
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("err = %v, want ErrUnknownMode", err)
	}
	if getAttr(n, "style") != "color: blue" {
		t.Fatalf("style mutated: %q", getAttr(n, "style"))
	}
	if Marker(n) != "" {
		t.Fatalf("marker set: %q", Marker(n))
	}
	if n.FirstChild != nil {
		t.Fatal("children added")
	}
}

func TestApplyRejectsNonElement(t *testing.T) {
	t.Parallel()
	text := &html.Node{Type: html.TextNode, Data: "hi"}
	if err := (Policy{}).Apply(text, ModeHide); err == nil {
		t.Fatal("expected error for non-element target")
	}
}

func TestStyleSheetCoversBothModes(t *testing.T) {
	t.Parallel()
	for _, want := range []string{`"hidden"`, `"highlight"`, "display:none", overlayClass} {
		if !strings.Contains(StyleSheet, want) {
			t.Fatalf("StyleSheet missing %q", want)
		}
	}
}
