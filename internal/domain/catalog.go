package domain

import "strings"

// CatalogEntry is a title shown by the catalog browser.
type CatalogEntry struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Image    string `json:"image" yaml:"image"`
	Link     string `json:"link,omitempty" yaml:"link,omitempty"`
	Category string `json:"category" yaml:"-"`
}

// Bookmark converts the entry to the item stored in a personal list.
func (e CatalogEntry) Bookmark() BookmarkedItem {
	return BookmarkedItem{ID: e.ID, Title: e.Title, Image: e.Image, Link: e.Link}
}

// Filter keeps entries whose title contains query, ignoring case.
// An empty query returns every entry in the original order.
func Filter(entries []CatalogEntry, query string) []CatalogEntry {
	q := strings.ToLower(query)
	out := make([]CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if q == "" || strings.Contains(strings.ToLower(e.Title), q) {
			out = append(out, e)
		}
	}
	return out
}
