package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/vianime/internal/catalog"
	"github.com/MrSnakeDoc/vianime/internal/feedback"
	"github.com/MrSnakeDoc/vianime/internal/logger"
	"github.com/MrSnakeDoc/vianime/internal/mylist"
	"github.com/MrSnakeDoc/vianime/internal/nav"
	"github.com/MrSnakeDoc/vianime/internal/session"
)

// Pinger reports whether a backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ViAnimeCreator appends documents to the vianimes collection.
type ViAnimeCreator interface {
	CreateViAnime(ctx context.Context, fields map[string]string) (string, error)
}

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time // for testing, defaults to time.Now
	AllowedHosts   []string         // Host headers allowed to access the server
	AllowedCIDRS   []string         // networks allowed on infra endpoints
	TrustProxy     bool             // true if running behind a trusted reverse proxy
	RequestTimeout time.Duration    // deadline for non-streaming API requests
	AuthRateBurst  int              // sign-in/sign-up burst per client
	AuthRatePerMin int              // sign-in/sign-up refill per minute

	RedisClient *redis.Client  // remote store connection, pinged by readiness checks
	LocalCache  Pinger         // local key-value cache
	ViAnimes    ViAnimeCreator // generic create target

	Sessions     *session.Manager
	Navigator    *nav.Router
	Lists        *mylist.Synchronizer
	Mirror       *mylist.Mirror
	Catalog      *catalog.Browser
	CatalogIndex *catalog.Index
	Feedback     *feedback.Form

	ReloadTrigger chan struct{}   // manual catalog reload
	Done          <-chan struct{} // closed on shutdown, ends event streams
}

// Now returns the current time using TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
