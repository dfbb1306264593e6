package mylist

import (
	"sync"

	"github.com/MrSnakeDoc/vianime/internal/domain"
)

// EpochSource tells whether a session epoch is still the current one.
type EpochSource interface {
	IsCurrent(epoch uint64) bool
}

// Mirror is the active view's in-memory copy of the list. Results of calls
// started under an older session are refused, so a list fetched before a
// sign-out never reappears afterwards.
type Mirror struct {
	sessions EpochSource

	mu    sync.RWMutex
	items domain.BookmarkList
}

func NewMirror(sessions EpochSource) *Mirror {
	return &Mirror{sessions: sessions, items: domain.BookmarkList{}}
}

// Apply replaces the items if epoch is still current and reports whether it did.
func (m *Mirror) Apply(epoch uint64, list domain.BookmarkList) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.sessions.IsCurrent(epoch) {
		return false
	}
	m.items = append(domain.BookmarkList{}, list...)
	return true
}

// Reset empties the mirror.
func (m *Mirror) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = domain.BookmarkList{}
}

// Items returns a copy of the current items.
func (m *Mirror) Items() domain.BookmarkList {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append(domain.BookmarkList{}, m.items...)
}
