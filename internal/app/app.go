package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/multierr"

	"github.com/MrSnakeDoc/vianime/internal/catalog"
	"github.com/MrSnakeDoc/vianime/internal/config"
	"github.com/MrSnakeDoc/vianime/internal/feedback"
	"github.com/MrSnakeDoc/vianime/internal/httpserver"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vianime/internal/localcache"
	"github.com/MrSnakeDoc/vianime/internal/logger"
	"github.com/MrSnakeDoc/vianime/internal/mylist"
	"github.com/MrSnakeDoc/vianime/internal/nav"
	"github.com/MrSnakeDoc/vianime/internal/redis"
	"github.com/MrSnakeDoc/vianime/internal/scheduler"
	"github.com/MrSnakeDoc/vianime/internal/session"
	redisstore "github.com/MrSnakeDoc/vianime/internal/store/redis"
	"github.com/MrSnakeDoc/vianime/internal/version"
)

type localStore interface {
	localcache.Store
	Ping(ctx context.Context) error
}

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	cache       localStore
	sessions    *session.Manager
	reloader    *scheduler.CatalogReloader
	resync      *scheduler.ListResync
	startup     *scheduler.StartupSync
	done        chan struct{}
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Remote store first, fail fast if unavailable
	loggerClient.Infof("Connecting to remote store at %s", cfg.RedisAddr)
	redisClient, err := redis.Connect(context.Background(), redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("connect remote store: %w", err)
	}
	store := redisstore.NewStore(redisClient, cfg.SessionTTL)

	var cache localStore
	if cfg.InMemoryCache() {
		loggerClient.Warn("local cache is in memory, sessions will not survive a restart")
		cache = localcache.NewMemory()
	} else {
		sqlite, err := localcache.OpenSQLite(cfg.CachePath)
		if err != nil {
			_ = redisClient.Close()
			return nil, fmt.Errorf("open local cache: %w", err)
		}
		loggerClient.Info("local cache opened", logger.String("path", cfg.CachePath))
		cache = sqlite
	}

	router := nav.NewRouter()
	sessions := session.NewManager(store, cache, router, loggerClient)
	lists := mylist.NewSynchronizer(store, cache, sessions, loggerClient, cfg.WatchFallbackBase)
	mirror := mylist.NewMirror(sessions)

	idx := catalog.NewIndex()
	browser := catalog.NewBrowser(idx, lists, catalog.LogOpener{Logger: loggerClient}, loggerClient)
	form := feedback.NewForm(feedback.NewSubmitter(store, loggerClient))

	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewCatalogReloader(
		cfg.CatalogFile,
		idx,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)
	resync := scheduler.NewListResync(sessions, lists, mirror, loggerClient, cfg.ResyncInterval)
	done := make(chan struct{})

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		RequestTimeout: cfg.RequestTimeout,
		AuthRateBurst:  cfg.AuthRateBurst,
		AuthRatePerMin: cfg.AuthRatePerMin,
		RedisClient:    redisClient,
		LocalCache:     cache,
		ViAnimes:       store,
		Sessions:       sessions,
		Navigator:      router,
		Lists:          lists,
		Mirror:         mirror,
		Catalog:        browser,
		CatalogIndex:   idx,
		Feedback:       form,
		ReloadTrigger:  reloadTrigger,
		Done:           done,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		cache:       cache,
		sessions:    sessions,
		reloader:    reloader,
		resync:      resync,
		startup:     scheduler.NewStartupSync(sessions, resync, loggerClient),
		done:        done,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("Starting ViAnime v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("ViAnime %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog reloader: %w", err)
	}
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	route := a.startup.Sync(ctx)
	a.logger.Info("startup session check done", logger.String("route", string(route)))

	if err := a.sessions.Watch(ctx); err != nil {
		a.logger.Warn("auth events unavailable, invalidations will not be seen",
			logger.Error(err))
	}
	go a.resync.Follow(ctx, a.sessions.Observe(ctx).C())
	a.resync.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	close(a.done)
	a.reloader.Stop()
	a.resync.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.close(); err != nil {
		a.logger.Warn("failed to release stores cleanly", logger.Error(err))
		return err
	}

	a.logger.Info("ViAnime stopped cleanly")
	return nil
}

// close releases the remote connection and the local cache.
func (a *App) close() error {
	var errs error
	if a.redisClient != nil {
		errs = multierr.Append(errs, a.redisClient.Close())
	}
	if c, ok := a.cache.(io.Closer); ok {
		errs = multierr.Append(errs, c.Close())
	}
	return errs
}
