package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/vianime/internal/domain"
	"github.com/MrSnakeDoc/vianime/internal/logger"
)

// SessionSource gives the current session and its epoch.
type SessionSource interface {
	Current() (domain.Session, uint64)
}

// ListLoader reloads a personal list from the remote replica.
type ListLoader interface {
	Load(ctx context.Context, epoch uint64, identity string) domain.BookmarkList
}

// ListApplier receives lists tagged with the epoch they were fetched under.
type ListApplier interface {
	Apply(epoch uint64, list domain.BookmarkList) bool
	Reset()
}

// ListResync periodically pulls the signed-in user's list so edits made on
// other devices reach the local replica.
type ListResync struct {
	sessions SessionSource
	lists    ListLoader
	mirror   ListApplier
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewListResync creates a new resync loop
func NewListResync(
	sessions SessionSource,
	lists ListLoader,
	mirror ListApplier,
	log logger.Logger,
	interval time.Duration,
) *ListResync {
	return &ListResync{
		sessions: sessions,
		lists:    lists,
		mirror:   mirror,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic resync. A zero interval disables it.
func (lr *ListResync) Start(ctx context.Context) {
	if lr.interval <= 0 {
		lr.logger.Info("list resync disabled")
		return
	}

	ticker := time.NewTicker(lr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				lr.Sync(ctx)
			case <-lr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Follow keeps the mirror in step with session transitions until updates
// closes: it empties on sign-out and reloads on sign-in.
func (lr *ListResync) Follow(ctx context.Context, updates <-chan domain.Session) {
	for s := range updates {
		if !s.IsAuthenticated() {
			lr.mirror.Reset()
			continue
		}
		lr.Sync(ctx)
	}
}

// Stop stops the resync loop
func (lr *ListResync) Stop() {
	close(lr.stopCh)
}

// Sync loads the current user's list and hands it to the mirror.
// It reports whether the mirror accepted the result.
func (lr *ListResync) Sync(ctx context.Context) bool {
	s, epoch := lr.sessions.Current()
	if !s.IsAuthenticated() {
		return false
	}

	list := lr.lists.Load(ctx, epoch, s.Identity)
	if !lr.mirror.Apply(epoch, list) {
		lr.logger.Debug("discarding list fetched under a previous session",
			logger.Uint64("epoch", epoch))
		return false
	}

	lr.logger.Debug("list resynced",
		logger.String("identity", s.Identity),
		logger.Int("items", len(list)))
	return true
}
