package scan

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// NodePath builds a CSS selector addressing a node by position from the
// document root, e.g. "html > body > div:nth-child(2) > h2:nth-child(1)".
// The path identifies the node in the live page the snapshot was taken from;
// it is positional identity, independent of the node's content.
func NodePath(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if cur.Parent == nil || cur.Parent.Type == html.DocumentNode {
			parts = append(parts, cur.Data)
			break
		}
		parts = append(parts, fmt.Sprintf("%s:nth-child(%d)", cur.Data, elementIndex(cur)))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

// elementIndex is the node's 1-based position among its element siblings,
// matching CSS :nth-child semantics.
func elementIndex(n *html.Node) int {
	idx := 1
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode {
			idx++
		}
	}
	return idx
}
