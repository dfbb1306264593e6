package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/vianime/internal/logger"
	"github.com/MrSnakeDoc/vianime/internal/nav"
)

// Restorer picks the initial route from the cached session token.
type Restorer interface {
	Restore(ctx context.Context) nav.Route
}

// StartupSync restores the session on start and fills the list view when
// a user is signed in.
type StartupSync struct {
	sessions Restorer
	resync   *ListResync
	logger   logger.Logger
}

// NewStartupSync creates a new startup syncer
func NewStartupSync(sessions Restorer, resync *ListResync, log logger.Logger) *StartupSync {
	return &StartupSync{
		sessions: sessions,
		resync:   resync,
		logger:   log,
	}
}

// Sync restores the session and loads the list. It returns the initial route.
func (ss *StartupSync) Sync(ctx context.Context) nav.Route {
	ss.logger.Info("restoring session from local cache")

	route := ss.sessions.Restore(ctx)
	loaded := ss.resync.Sync(ctx)

	ss.logger.Info("startup sync done",
		logger.String("route", string(route)),
		logger.Bool("list_loaded", loaded))
	return route
}
