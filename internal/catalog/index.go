// Package catalog holds the browsable titles, partitioned into categories.
package catalog

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/vianime/internal/domain"
)

// Category is a named, ordered partition of the catalog.
type Category struct {
	Name    string
	Entries []domain.CatalogEntry
}

// Index provides in-memory lookup of catalog entries.
// It is replaced wholesale on every reload.
type Index struct {
	mu         sync.RWMutex
	order      []string                        // category names, display order
	categories map[string][]domain.CatalogEntry // name -> entries
	byID       map[string]domain.CatalogEntry
	source     string
	lastReload time.Time
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{
		categories: make(map[string][]domain.CatalogEntry),
		byID:       make(map[string]domain.CatalogEntry),
	}
}

// Update replaces all categories. source names where they came from.
func (idx *Index) Update(categories []Category, source string) {
	order := make([]string, 0, len(categories))
	byName := make(map[string][]domain.CatalogEntry, len(categories))
	byID := make(map[string]domain.CatalogEntry)

	for _, c := range categories {
		entries := make([]domain.CatalogEntry, len(c.Entries))
		for i, e := range c.Entries {
			e.Category = c.Name
			entries[i] = e
			byID[e.ID] = e
		}
		order = append(order, c.Name)
		byName[c.Name] = entries
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.order = order
	idx.categories = byName
	idx.byID = byID
	idx.source = source
	idx.lastReload = time.Now()
}

// Categories returns category names in display order
func (idx *Index) Categories() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return append([]string(nil), idx.order...)
}

// Entries returns a copy of the entries of one category
func (idx *Index) Entries(category string) ([]domain.CatalogEntry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entries, ok := idx.categories[category]
	if !ok {
		return nil, false
	}
	return append([]domain.CatalogEntry(nil), entries...), true
}

// Get retrieves an entry by ID across all categories
func (idx *Index) Get(id string) (domain.CatalogEntry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	e, ok := idx.byID[id]
	return e, ok
}

// Count returns the number of entries
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.byID)
}

// Source returns where the current entries were loaded from
func (idx *Index) Source() string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.source
}

// LastReload returns the timestamp of the last update
func (idx *Index) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
