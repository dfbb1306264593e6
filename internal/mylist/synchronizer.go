// Package mylist keeps a user's personal list consistent between the local
// cache and the remote user document.
package mylist

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/multierr"

	"github.com/MrSnakeDoc/vianime/internal/domain"
	"github.com/MrSnakeDoc/vianime/internal/localcache"
	"github.com/MrSnakeDoc/vianime/internal/logger"
)

// RemoteStore is the remote replica: one list per identity.
// found is false when the user document has no list yet.
type RemoteStore interface {
	GetList(ctx context.Context, identity string) (list domain.BookmarkList, found bool, err error)
	PutList(ctx context.Context, identity string, list domain.BookmarkList) error
}

// SessionGuard runs local writes only while the session an operation started
// under is still current.
type SessionGuard interface {
	WhileCurrent(epoch uint64, fn func() error) (bool, error)
}

// Synchronizer reconciles the local and remote replicas.
//
// Writes replace the whole remote list; two devices editing the same list
// concurrently resolve to the last writer.
type Synchronizer struct {
	remote       RemoteStore
	cache        localcache.Store
	sessions     SessionGuard
	logger       logger.Logger
	fallbackBase string
}

// NewSynchronizer creates a synchronizer. fallbackBase is used to build watch
// links for items without one.
func NewSynchronizer(remote RemoteStore, cache localcache.Store, sessions SessionGuard, log logger.Logger, fallbackBase string) *Synchronizer {
	if fallbackBase == "" {
		fallbackBase = domain.DefaultWatchFallbackBase
	}
	return &Synchronizer{
		remote:       remote,
		cache:        cache,
		sessions:     sessions,
		logger:       log,
		fallbackBase: fallbackBase,
	}
}

// ResolveWatchLink returns the URL to open for item.
func (s *Synchronizer) ResolveWatchLink(item domain.BookmarkedItem) string {
	return domain.ResolveWatchLink(item, s.fallbackBase)
}

// FallbackBase is the prefix used for items without a link.
func (s *Synchronizer) FallbackBase() string {
	return s.fallbackBase
}

// Load fetches the remote list and overwrites the local replica with it.
// Without an identity it returns an empty list and touches nothing. Remote
// failures are logged and yield an empty list so the view still renders.
// The replica is left alone when the session changed since epoch.
func (s *Synchronizer) Load(ctx context.Context, epoch uint64, identity string) domain.BookmarkList {
	if identity == "" {
		return domain.BookmarkList{}
	}

	list, found, err := s.remote.GetList(ctx, identity)
	if err != nil {
		s.logger.Error("failed to load remote list",
			logger.String("identity", identity),
			logger.Error(err))
		return domain.BookmarkList{}
	}
	if !found {
		list = domain.BookmarkList{}
	}

	if _, err := s.writeLocalIfCurrent(ctx, epoch, list); err != nil {
		s.logger.Warn("failed to mirror remote list locally", logger.Error(err))
	}

	s.logger.Debug("list loaded",
		logger.String("identity", identity),
		logger.Int("items", len(list)),
		logger.Bool("found", found))
	return list.WithWatchLinks(s.fallbackBase)
}

// Local returns the local replica as the list view shows it.
func (s *Synchronizer) Local(ctx context.Context) (domain.BookmarkList, error) {
	list, err := s.readLocal(ctx)
	if err != nil {
		return nil, err
	}
	return list.WithWatchLinks(s.fallbackBase), nil
}

// Add appends item to the identity's list. The remote list is re-read first;
// an item already present is rejected before anything is written. Both
// replicas are then written with the same content. A failed write is
// reported without undoing the other one. The local write is skipped when
// the session changed since epoch.
func (s *Synchronizer) Add(ctx context.Context, epoch uint64, identity string, item domain.BookmarkedItem) (domain.BookmarkList, error) {
	if identity == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	current, _, err := s.remote.GetList(ctx, identity)
	if err != nil {
		s.logger.Error("failed to read remote list before add",
			logger.String("identity", identity),
			logger.Error(err))
		return nil, err
	}

	updated, err := current.Append(item)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", item.ID, err)
	}

	var errs error
	if err := s.remote.PutList(ctx, identity, updated); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := s.writeLocalIfCurrent(ctx, epoch, updated); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		s.logger.Error("add to list incomplete",
			logger.String("identity", identity),
			logger.String("item", item.ID),
			logger.Error(errs))
		return nil, errs
	}

	s.logger.Info("added to list",
		logger.String("identity", identity),
		logger.String("item", item.ID))
	return updated, nil
}

// Remove drops id from the local replica, which is the list of record here,
// then pushes the result to the remote when identity is set. A missing id
// leaves the list unchanged. When the session changed since epoch neither
// replica is written: the local one may already have been cleared.
func (s *Synchronizer) Remove(ctx context.Context, epoch uint64, identity, id string) (domain.BookmarkList, error) {
	current, err := s.readLocal(ctx)
	if err != nil {
		return nil, err
	}
	updated := current.Without(id)

	var errs error
	written, err := s.writeLocalIfCurrent(ctx, epoch, updated)
	if err != nil {
		errs = multierr.Append(errs, err)
	} else if !written {
		return updated, nil
	}
	if identity != "" {
		if err := s.remote.PutList(ctx, identity, updated); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		s.logger.Error("remove from list incomplete",
			logger.String("item", id),
			logger.Error(errs))
		return nil, errs
	}
	return updated, nil
}

func (s *Synchronizer) readLocal(ctx context.Context) (domain.BookmarkList, error) {
	raw, ok, err := s.cache.Get(ctx, localcache.KeyMyList)
	if err != nil {
		return nil, fmt.Errorf("read local list: %w", err)
	}
	if !ok || raw == "" {
		return domain.BookmarkList{}, nil
	}
	var list domain.BookmarkList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decode local list: %w", err)
	}
	if list == nil {
		list = domain.BookmarkList{}
	}
	return list, nil
}

// writeLocalIfCurrent writes list to the replica unless the session changed
// since epoch, and reports whether it did.
func (s *Synchronizer) writeLocalIfCurrent(ctx context.Context, epoch uint64, list domain.BookmarkList) (bool, error) {
	written, err := s.sessions.WhileCurrent(epoch, func() error {
		return s.writeLocal(ctx, list)
	})
	if !written {
		s.logger.Debug("session changed, local list left untouched",
			logger.Uint64("epoch", epoch))
	}
	return written, err
}

func (s *Synchronizer) writeLocal(ctx context.Context, list domain.BookmarkList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode local list: %w", err)
	}
	if err := s.cache.Set(ctx, localcache.KeyMyList, string(data)); err != nil {
		return fmt.Errorf("write local list: %w", err)
	}
	return nil
}
