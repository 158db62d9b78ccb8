package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/websaver/internal/assetcache"
	"github.com/MrSnakeDoc/websaver/internal/config"
	"github.com/MrSnakeDoc/websaver/internal/domain"
	"github.com/MrSnakeDoc/websaver/internal/httpserver"
	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
	"github.com/MrSnakeDoc/websaver/internal/logger"
	"github.com/MrSnakeDoc/websaver/internal/redis"
	"github.com/MrSnakeDoc/websaver/internal/scheduler"
	"github.com/MrSnakeDoc/websaver/internal/sources/seed"
	"github.com/MrSnakeDoc/websaver/internal/store/local"
	"github.com/MrSnakeDoc/websaver/internal/store/remote"
	"github.com/MrSnakeDoc/websaver/internal/sync"
	"github.com/MrSnakeDoc/websaver/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	localStore  *local.Store
	redisClient *goredis.Client
	coordinator *sync.Coordinator
	assets      *assetcache.Cache
	syncer      *scheduler.CloudSyncer
	janitor     *scheduler.CacheJanitor
}

func New() (*App, error) {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	return NewWithConfig(cfg, loggerClient)
}

// NewWithConfig wires the app from an explicit config (CLI entry).
func NewWithConfig(cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	// Durable local tiers first: the app works without anything else.
	localStore, err := local.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	loggerClient.Info("local store opened", logger.String("path", cfg.DBPath))

	// Remote document tier is optional: empty addr means local-only mode.
	var redisClient *goredis.Client
	var remoteStore *remote.Store
	if cfg.RemoteEnabled() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		redisClient, err = redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
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
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		remoteStore = remote.NewStore(redisClient)
		loggerClient.Info("remote document store initialized")
	} else {
		loggerClient.Info("redis not configured, running local-only")
	}

	coordinator := newCoordinator(cfg, loggerClient, localStore, remoteStore)

	// Seed file overrides the built-in defaults on an empty store.
	if cfg.SeedFile != "" {
		if err := seedIfEmpty(cfg, loggerClient, coordinator); err != nil {
			loggerClient.Warn("seed file ignored", logger.Error(err))
		}
	}

	// Asset cache is optional: no origin, no offline shell.
	var assets *assetcache.Cache
	if cfg.AssetOrigin != "" {
		assets, err = assetcache.New(assetcache.Options{
			Origin:    cfg.AssetOrigin,
			CacheName: cfg.AssetCacheName,
			Precache:  cfg.AssetPaths,
			Logger:    loggerClient,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build asset cache: %w", err)
		}
	}

	// Manual sync trigger feeds the cloud syncer; nil when remote is off.
	var syncTrigger chan struct{}
	var syncer *scheduler.CloudSyncer
	if remoteStore != nil {
		syncTrigger = make(chan struct{}, 1)
		syncer = scheduler.NewCloudSyncer(coordinator, loggerClient, cfg.SyncInterval, syncTrigger)
	}

	janitor := scheduler.NewCacheJanitor(localStore, assetPruner(assets), loggerClient, cfg.JanitorInterval, cfg.CacheMaxAge)

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		Coordinator:  coordinator,
		LocalStore:   localStore,
		RedisClient:  redisClient,
		SearchURL:    cfg.SearchURL,
		CacheMaxAge:  cfg.CacheMaxAge,
		SyncTrigger:  syncTrigger,
	}
	if assets != nil {
		d.Assets = assets
		d.AssetStats = func() (string, int) { return assets.Generation(), assets.Count() }
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		localStore:  localStore,
		redisClient: redisClient,
		coordinator: coordinator,
		assets:      assets,
		syncer:      syncer,
		janitor:     janitor,
	}, nil
}

func newCoordinator(cfg *config.Config, log logger.Logger, ls *local.Store, rs *remote.Store) *sync.Coordinator {
	opts := sync.Options{
		Local:       ls,
		CacheMaxAge: cfg.CacheMaxAge,
		Logger:      log,
		Notifier:    sync.LogNotifier{Logger: log},
	}
	if rs != nil {
		opts.Remote = rs
	}
	return sync.New(opts)
}

// seedIfEmpty replaces the collection with the seed file's groups, but
// only when the store still holds the built-in defaults.
func seedIfEmpty(cfg *config.Config, log logger.Logger, c *sync.Coordinator) error {
	groups, err := seed.NewLoader(cfg.SeedFile).Load()
	if err != nil {
		return err
	}
	if !c.Snapshot().Equal(domain.Default()) {
		log.Debug("store already has user data, seed file skipped")
		return nil
	}
	log.Info("seeding collection from file",
		logger.String("file", cfg.SeedFile),
		logger.Int("groups", len(groups)))
	return c.ReplaceAll(context.Background(), groups)
}

// assetPruner lifts a possibly-nil *assetcache.Cache onto the janitor's
// interface without handing it a typed nil.
func assetPruner(a *assetcache.Cache) scheduler.AssetPruner {
	if a == nil {
		return nil
	}
	return a
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting websaver v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("websaver %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Precache the app shell and drop stale generations.
	if a.assets != nil {
		a.assets.Install(ctx)
		a.assets.Activate()
	}

	if a.syncer != nil {
		if err := a.syncer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start cloud syncer: %w", err)
		}
		a.logger.Info("cloud syncer started",
			logger.Duration("interval", a.cfg.SyncInterval))
	}

	if err := a.janitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start cache janitor: %w", err)
	}
	a.logger.Info("cache janitor started",
		logger.Duration("interval", a.cfg.JanitorInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.syncer != nil {
		a.syncer.Stop()
	}
	a.janitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	if err := a.localStore.Close(); err != nil {
		a.logger.Warnf("failed to close local store: %v", err)
	}

	a.logger.Info("✅ websaver stopped cleanly")
	return nil
}
