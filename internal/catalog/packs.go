package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// packFile mirrors the on-disk locale pack layout:
//
//	headings:
//	  - locale: xx
//	    phrase: "..."
//	  - locale: xx
//	    regexp: "..."
//	people_also_ask: [...]
//	tab_labels: [...]
type packFile struct {
	Headings      []packEntry `yaml:"headings"`
	PeopleAlsoAsk []packEntry `yaml:"people_also_ask"`
	TabLabels     []packEntry `yaml:"tab_labels"`
}

type packEntry struct {
	Locale string `yaml:"locale"`
	Phrase string `yaml:"phrase"`
	Regexp string `yaml:"regexp"`
}

// LoadPack merges extra locale patterns from a YAML file into the catalog.
// Entries are appended after the built-in set, so built-ins keep first-match
// priority.
func (c *Catalog) LoadPack(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("locale pack %s: %w", path, err)
	}
	var pf packFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("locale pack %s: %w", path, err)
	}
	sections := []struct {
		cat     Category
		entries []packEntry
	}{
		{CategoryHeading, pf.Headings},
		{CategoryPeopleAlsoAsk, pf.PeopleAlsoAsk},
		{CategoryTabLabel, pf.TabLabels},
	}
	for _, sec := range sections {
		for _, e := range sec.entries {
			switch {
			case e.Regexp != "":
				if err := c.AddRegexp(sec.cat, e.Locale, e.Regexp); err != nil {
					return fmt.Errorf("locale pack %s: %s: %w", path, e.Locale, err)
				}
			case e.Phrase != "":
				c.Add(sec.cat, Pattern{Locale: e.Locale, Phrase: e.Phrase})
			}
		}
	}
	return nil
}
