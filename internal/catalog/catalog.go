// Package catalog holds the locale-specific text matchers used to classify
// candidate page regions. It is pure data plus predicates; adding a locale is
// a data change only.
package catalog

import (
	"regexp"
	"strings"
)

// Category names a class of text the catalog can match.
type Category string

const (
	// CategoryHeading covers overview/mode section heading text.
	CategoryHeading Category = "heading"
	// CategoryPeopleAlsoAsk covers "people also ask" phrases.
	CategoryPeopleAlsoAsk Category = "people_also_ask"
	// CategoryTabLabel covers the AI-mode navigation tab label.
	CategoryTabLabel Category = "tab_label"
)

// Pattern is a single locale matcher. Exactly one of Phrase or Regexp is set;
// Phrase matches case-insensitively as a substring.
type Pattern struct {
	Locale string
	Phrase string
	re     *regexp.Regexp
}

func (p Pattern) matches(text string) bool {
	if p.re != nil {
		return p.re.MatchString(text)
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(p.Phrase))
}

// Catalog is an ordered union of locale patterns per category. First match
// wins; there is no locale negotiation.
type Catalog struct {
	patterns map[Category][]Pattern
}

// New returns a catalog preloaded with the built-in locale set.
func New() *Catalog {
	c := &Catalog{patterns: make(map[Category][]Pattern)}
	for cat, pats := range builtinPatterns() {
		c.patterns[cat] = append(c.patterns[cat], pats...)
	}
	return c
}

// Add appends a pattern to a category. Order is preserved.
func (c *Catalog) Add(cat Category, p Pattern) {
	c.patterns[cat] = append(c.patterns[cat], p)
}

// AddRegexp appends a compiled regex pattern. Matching is case-insensitive.
func (c *Catalog) AddRegexp(cat Category, locale, expr string) error {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return err
	}
	c.patterns[cat] = append(c.patterns[cat], Pattern{Locale: locale, re: re})
	return nil
}

// Match reports whether text matches any pattern registered for the category.
// Empty or whitespace-only text never matches.
func (c *Catalog) Match(cat Category, text string) bool {
	_, ok := c.MatchLocale(cat, text)
	return ok
}

// MatchLocale is Match plus the locale of the first matching pattern.
func (c *Catalog) MatchLocale(cat Category, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	for _, p := range c.patterns[cat] {
		if p.matches(text) {
			return p.Locale, true
		}
	}
	return "", false
}

// Len reports how many patterns a category carries. Used by tests and the
// pack loader log line.
func (c *Catalog) Len(cat Category) int {
	return len(c.patterns[cat])
}
