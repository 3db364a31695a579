// Package taxonomy loads the controlled tag taxonomy used to classify
// articles and exposes lookups and the prompt-facing formatting of it.
package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type Tag struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Category struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Tags        []Tag  `json:"tags"`
}

// TagInfo is the display-oriented view of a tag id.
type TagInfo struct {
	Name     string
	Color    string
	Category string
}

// Taxonomy is an ordered list of categories. Ordering is preserved from the
// source file because Format output feeds directly into prompts and must be
// reproducible.
type Taxonomy struct {
	Categories []Category

	byID map[string]TagInfo
}

// Load reads the taxonomy definition file and fails fast when a tag id
// appears more than once anywhere in it; a shadowed id would silently corrupt
// every lookup downstream.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Taxonomy from raw JSON; see Load.
func Parse(data []byte) (*Taxonomy, error) {
	var categories []Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("taxonomy: parsing definition: %w", err)
	}

	tax := &Taxonomy{
		Categories: categories,
		byID:       make(map[string]TagInfo),
	}
	for _, cat := range categories {
		for _, tag := range cat.Tags {
			if _, dup := tax.byID[tag.ID]; dup {
				return nil, fmt.Errorf("taxonomy: duplicate tag id %q", tag.ID)
			}
			tax.byID[tag.ID] = TagInfo{
				Name:     tag.Name,
				Color:    cat.Color,
				Category: cat.Title,
			}
		}
	}

	return tax, nil
}

// AllTagIDs returns the set of every tag id in the taxonomy.
func (t *Taxonomy) AllTagIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(t.byID))
	for id := range t.byID {
		ids[id] = struct{}{}
	}
	return ids
}

// Has reports whether id is a known tag id.
func (t *Taxonomy) Has(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// Lookup returns the display info for a tag id.
func (t *Taxonomy) Lookup(id string) (TagInfo, bool) {
	info, ok := t.byID[id]
	return info, ok
}

// Format renders the taxonomy in the shape the tagging prompts embed:
// one upper-cased category line followed by its tag ids and descriptions,
// in file order.
func (t *Taxonomy) Format() string {
	var b strings.Builder
	for _, cat := range t.Categories {
		fmt.Fprintf(&b, "\n%s: %s\n", strings.ToUpper(cat.Title), cat.Description)
		for _, tag := range cat.Tags {
			fmt.Fprintf(&b, "  - %s: %s\n", tag.ID, tag.Description)
		}
	}
	return b.String()
}

// NormalizationMap builds a case-insensitive mapping from historical or alias
// tag text to canonical tag ids: every tag's lowercased name and lowercased id
// map to its canonical id, and the hand-maintained alias table is layered on
// top. Alias entries pointing at unknown ids are ignored.
func (t *Taxonomy) NormalizationMap(aliases map[string]string) map[string]string {
	m := make(map[string]string)
	for _, cat := range t.Categories {
		for _, tag := range cat.Tags {
			m[strings.ToLower(tag.Name)] = tag.ID
			m[strings.ToLower(tag.ID)] = tag.ID
		}
	}
	for alias, id := range aliases {
		if t.Has(id) {
			m[strings.ToLower(alias)] = id
		}
	}
	return m
}
