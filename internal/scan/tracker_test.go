package scan

import (
	"testing"

	"golang.org/x/net/html"
)

func TestTrackerMembershipIsIdentityBased(t *testing.T) {
	t.Parallel()
	tr := NewElementTracker()
	a := elem("div")
	b := elem("div") // same shape, different node

	tr.Add(a)
	if !tr.Seen(a) {
		t.Fatal("a should be seen")
	}
	if tr.Seen(b) {
		t.Fatal("b shares content with a but is a different node")
	}
	if tr.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tr.Len())
	}

	tr.Add(a)
	if tr.Len() != 1 {
		t.Fatalf("double Add changed Len to %d", tr.Len())
	}
}

func TestTrackerReset(t *testing.T) {
	t.Parallel()
	tr := NewElementTracker()
	n := &html.Node{Type: html.ElementNode, Data: "div"}
	tr.Add(n)
	tr.Reset()
	if tr.Seen(n) || tr.Len() != 0 {
		t.Fatal("Reset did not clear membership")
	}
}
