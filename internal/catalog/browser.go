package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/vianime/internal/domain"
	"github.com/MrSnakeDoc/vianime/internal/logger"
)

// ListAdder stores an entry in a user's personal list. epoch is the session
// epoch the call was started under.
type ListAdder interface {
	Add(ctx context.Context, epoch uint64, identity string, item domain.BookmarkedItem) (domain.BookmarkList, error)
}

// Opener opens an external URL. The outcome is not observed.
type Opener interface {
	Open(url string)
}

// Browser is the catalog view: an active category, text filtering, and the
// add and open actions on an entry.
type Browser struct {
	index  *Index
	lists  ListAdder
	opener Opener
	logger logger.Logger

	mu     sync.Mutex
	active string
}

// NewBrowser creates a browser on index. The first category is active.
func NewBrowser(index *Index, lists ListAdder, opener Opener, log logger.Logger) *Browser {
	b := &Browser{index: index, lists: lists, opener: opener, logger: log}
	if cats := index.Categories(); len(cats) > 0 {
		b.active = cats[0]
	}
	return b
}

// Active returns the active category name.
func (b *Browser) Active() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.index.Entries(b.active); !ok {
		// the category vanished on reload
		if cats := b.index.Categories(); len(cats) > 0 {
			b.active = cats[0]
		}
	}
	return b.active
}

// Categories returns the category names in display order.
func (b *Browser) Categories() []string {
	return b.index.Categories()
}

// SelectCategory switches the active category and returns its entries.
func (b *Browser) SelectCategory(name string) ([]domain.CatalogEntry, error) {
	entries, ok := b.index.Entries(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrUnknownCategory)
	}

	b.mu.Lock()
	b.active = name
	b.mu.Unlock()

	return entries, nil
}

// Entries returns the entries of category, or of the active one when
// category is empty, filtered by query.
func (b *Browser) Entries(category, query string) ([]domain.CatalogEntry, error) {
	if category == "" {
		category = b.Active()
	}
	entries, ok := b.index.Entries(category)
	if !ok {
		return nil, fmt.Errorf("%q: %w", category, domain.ErrUnknownCategory)
	}
	return domain.Filter(entries, query), nil
}

// AddToList adds the catalog entry id to identity's personal list.
func (b *Browser) AddToList(ctx context.Context, epoch uint64, identity, id string) (domain.CatalogEntry, domain.BookmarkList, error) {
	entry, ok := b.index.Get(id)
	if !ok {
		return domain.CatalogEntry{}, nil, fmt.Errorf("catalog entry %q: %w", id, domain.ErrNotFound)
	}

	list, err := b.lists.Add(ctx, epoch, identity, entry.Bookmark())
	if err != nil {
		return entry, nil, err
	}
	return entry, list, nil
}

// OpenLink hands the entry's watch link to the opener and returns it.
// Entries without a link have nothing to open.
func (b *Browser) OpenLink(id string) (string, error) {
	entry, ok := b.index.Get(id)
	if !ok {
		return "", fmt.Errorf("catalog entry %q: %w", id, domain.ErrNotFound)
	}
	if entry.Link == "" {
		return "", fmt.Errorf("no watch link for %q: %w", id, domain.ErrNotFound)
	}

	b.opener.Open(entry.Link)
	b.logger.Debug("opened watch link",
		logger.String("id", id),
		logger.String("url", entry.Link))
	return entry.Link, nil
}

// LogOpener records opened links in the log. The API caller performs the
// actual navigation.
type LogOpener struct {
	Logger logger.Logger
}

func (o LogOpener) Open(url string) {
	o.Logger.Info("open external link", logger.String("url", url))
}
