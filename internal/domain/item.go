package domain

import (
	"net/url"
	"strings"
)

// DefaultWatchFallbackBase is prepended to an item ID when the item has no link.
const DefaultWatchFallbackBase = "https://example.com/watch/"

// BookmarkedItem is one entry of a user's personal list.
// It is created when a catalog entry is added and never mutated afterwards.
type BookmarkedItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
	Link  string `json:"link,omitempty"`
}

// Validate checks the fields required to store an item.
func (i BookmarkedItem) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrInvalidItem
	}
	return nil
}

// ResolveWatchLink returns the item's link, or a URL derived from its ID
// alone when the link is empty. The fallback is not checked for reachability.
func ResolveWatchLink(item BookmarkedItem, fallbackBase string) string {
	if item.Link != "" {
		return item.Link
	}
	if fallbackBase == "" {
		fallbackBase = DefaultWatchFallbackBase
	}
	return fallbackBase + url.PathEscape(item.ID)
}

// BookmarkList is an ordered list of items with unique IDs.
type BookmarkList []BookmarkedItem

// Contains reports whether an item with the given ID is present.
func (l BookmarkList) Contains(id string) bool {
	for _, it := range l {
		if it.ID == id {
			return true
		}
	}
	return false
}

// Append returns a new list with item at the tail.
// It fails with ErrDuplicateItem when the ID is already present.
func (l BookmarkList) Append(item BookmarkedItem) (BookmarkList, error) {
	if l.Contains(item.ID) {
		return l, ErrDuplicateItem
	}
	out := make(BookmarkList, 0, len(l)+1)
	out = append(out, l...)
	return append(out, item), nil
}

// Without returns a new list without the item matching id.
// A missing id yields an identical copy.
func (l BookmarkList) Without(id string) BookmarkList {
	out := make(BookmarkList, 0, len(l))
	for _, it := range l {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// WithWatchLinks returns a copy where every empty link is replaced by its fallback.
func (l BookmarkList) WithWatchLinks(fallbackBase string) BookmarkList {
	out := make(BookmarkList, len(l))
	for i, it := range l {
		it.Link = ResolveWatchLink(it, fallbackBase)
		out[i] = it
	}
	return out
}

// Find returns the item with the given ID.
func (l BookmarkList) Find(id string) (BookmarkedItem, bool) {
	for _, it := range l {
		if it.ID == id {
			return it, true
		}
	}
	return BookmarkedItem{}, false
}
