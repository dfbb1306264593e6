package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/MrSnakeDoc/vianime/internal/domain"
	"github.com/MrSnakeDoc/vianime/internal/logger"
)

type fakeLists struct {
	added    []domain.BookmarkedItem
	identity string
	err      error
}

func (f *fakeLists) Add(_ context.Context, _ uint64, identity string, item domain.BookmarkedItem) (domain.BookmarkList, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.identity = identity
	f.added = append(f.added, item)
	return domain.BookmarkList(f.added), nil
}

type fakeOpener struct{ opened []string }

func (f *fakeOpener) Open(url string) { f.opened = append(f.opened, url) }

func newBrowser() (*Browser, *fakeLists, *fakeOpener) {
	idx := NewIndex()
	idx.Update(Builtin(), SourceBuiltin)
	lists := &fakeLists{}
	opener := &fakeOpener{}
	return NewBrowser(idx, lists, opener, logger.Nop()), lists, opener
}

func TestBrowserStartsOnFirstCategory(t *testing.T) {
	b, _, _ := newBrowser()
	if b.Active() != Category2D {
		t.Errorf("Active() = %q, want %q", b.Active(), Category2D)
	}

	entries, err := b.Entries("", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 || entries[0].ID != "1" || entries[4].ID != "5" {
		t.Errorf("Entries() = %+v", entries)
	}
}

func TestBrowserSelectCategory(t *testing.T) {
	b, _, _ := newBrowser()

	entries, err := b.SelectCategory(Category3D)
	if err != nil {
		t.Fatalf("SelectCategory() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("SelectCategory() returned %d entries", len(entries))
	}
	if b.Active() != Category3D {
		t.Errorf("Active() = %q", b.Active())
	}

	if _, err := b.SelectCategory("4D"); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Errorf("SelectCategory(4D) error = %v", err)
	}
	if b.Active() != Category3D {
		t.Error("failed selection changed the active category")
	}
}

func TestBrowserEntriesFilter(t *testing.T) {
	b, _, _ := newBrowser()

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"1", "2", "3", "4", "5"}},
		{"titan", []string{"3"}},
		{"TITAN", []string{"3"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := b.Entries(Category2D, tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Entries(%q) = %d entries, want %d", tt.query, len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("Entries(%q)[%d] = %s, want %s", tt.query, i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestBrowserAddToList(t *testing.T) {
	b, lists, _ := newBrowser()

	entry, list, err := b.AddToList(context.Background(), 0, "uid", "22")
	if err != nil {
		t.Fatalf("AddToList() error = %v", err)
	}
	if entry.Title != "Renegade Immortal" || len(list) != 1 {
		t.Errorf("AddToList() = %+v, %+v", entry, list)
	}
	if lists.identity != "uid" || lists.added[0].Link != entry.Link {
		t.Errorf("synchronizer got %q %+v", lists.identity, lists.added)
	}

	if _, _, err := b.AddToList(context.Background(), 0, "uid", "404"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("AddToList(404) error = %v", err)
	}
}

func TestBrowserAddToListPropagatesErrors(t *testing.T) {
	b, lists, _ := newBrowser()
	lists.err = domain.ErrDuplicateItem

	if _, _, err := b.AddToList(context.Background(), 0, "uid", "1"); !errors.Is(err, domain.ErrDuplicateItem) {
		t.Errorf("AddToList() error = %v", err)
	}
}

func TestBrowserOpenLink(t *testing.T) {
	b, _, opener := newBrowser()

	url, err := b.OpenLink("2")
	if err != nil {
		t.Fatalf("OpenLink() error = %v", err)
	}
	if url != "https://9animetv.to/search?keyword=one+piece" {
		t.Errorf("OpenLink() = %q", url)
	}
	if len(opener.opened) != 1 || opener.opened[0] != url {
		t.Errorf("opener got %v", opener.opened)
	}
}

func TestBrowserOpenLinkWithoutLink(t *testing.T) {
	idx := NewIndex()
	idx.Update([]Category{{Name: "2D", Entries: []domain.CatalogEntry{{ID: "x", Title: "Unreleased"}}}}, "test")
	opener := &fakeOpener{}
	b := NewBrowser(idx, &fakeLists{}, opener, logger.Nop())

	if _, err := b.OpenLink("x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("OpenLink() error = %v", err)
	}
	if len(opener.opened) != 0 {
		t.Error("opener called without a link")
	}
}
