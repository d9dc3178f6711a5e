package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkpost/internal/config"
	"github.com/MrSnakeDoc/linkpost/internal/content"
	"github.com/MrSnakeDoc/linkpost/internal/ghost"
	"github.com/MrSnakeDoc/linkpost/internal/history"
	"github.com/MrSnakeDoc/linkpost/internal/httpserver"
	"github.com/MrSnakeDoc/linkpost/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkpost/internal/index"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
	"github.com/MrSnakeDoc/linkpost/internal/markup"
	"github.com/MrSnakeDoc/linkpost/internal/redis"
	"github.com/MrSnakeDoc/linkpost/internal/scheduler"
	"github.com/MrSnakeDoc/linkpost/internal/sources/local"
	"github.com/MrSnakeDoc/linkpost/internal/sources/raindrop"
	redisstore "github.com/MrSnakeDoc/linkpost/internal/store/redis"
	"github.com/MrSnakeDoc/linkpost/internal/syncer"
	"github.com/MrSnakeDoc/linkpost/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memIndex    *index.MemoryIndex
	schedule    *scheduler.SyncSchedule
	gc          *scheduler.GarbageCollector
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}

	var convOpts []markup.Option
	if cfg.DetectCodeLanguage {
		convOpts = append(convOpts, markup.WithLanguageDetector(markup.ChromaDetector{}))
	}
	builder := content.NewBuilder(markup.NewConverter(convOpts...), loc, cfg.BaseTag)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	source, err := newSource(cfg, httpClient, loggerClient)
	if err != nil {
		return nil, err
	}

	ghostClient, err := ghost.NewClient(cfg.GhostURL, cfg.GhostAdminKey, cfg.GhostVersion, httpClient, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create ghost client: %w", err)
	}

	memIndex := index.NewMemoryIndex()

	// Redis is optional: without it the history lives in memory only.
	// Interfaces stay nil (not typed nil) when it is absent.
	var (
		redisClient *goredis.Client
		historyDB   history.Store
		deleter     scheduler.RecordDeleter
		redisPinger deps.Pinger
	)
	if cfg.RedisAddr != "" {
		redisClient, err = redis.Connect(context.Background(), redis.ConnectOptions{
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
			loggerClient.Warn("redis unavailable, sync history kept in memory only", logger.Error(err))
		} else {
			store := redisstore.NewStore(redisClient, cfg.HistoryRetention)
			historyDB, deleter, redisPinger = store, store, store

			if err := scheduler.NewRedisSyncer(store, memIndex, loggerClient).Sync(context.Background()); err != nil {
				loggerClient.Warn("failed to load sync history from redis", logger.Error(err))
			}
		}
	} else {
		loggerClient.Info("redis not configured, sync history kept in memory only")
	}

	recorder := history.NewRecorder(memIndex, historyDB, loggerClient)
	syncSvc := syncer.New(source, ghostClient, builder, loggerClient, syncer.WithRecorder(recorder))

	gc := scheduler.NewGarbageCollector(deleter, memIndex, loggerClient, cfg.GCInterval, cfg.HistoryRetention)

	var (
		schedule     *scheduler.SyncSchedule
		scheduleDeps deps.Schedule
	)
	if cfg.SyncSchedule != "" {
		schedule, err = scheduler.NewSyncSchedule(cfg.SyncSchedule, loc, syncSvc, cfg.SyncTimeout, loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create sync schedule: %w", err)
		}
		scheduleDeps = schedule
	}

	// Dependencies passed to routes (extend as needed).
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
		SyncSecret:     cfg.SyncSecret,
		SyncTimeout:    cfg.SyncTimeout,
		SyncRateBurst:  cfg.SyncRateBurst,
		SyncRatePerMin: cfg.SyncRatePerMin,
		Syncer:         syncSvc,
		History:        memIndex,
		Redis:          redisPinger,
		Ghost:          ghostClient,
		Schedule:       scheduleDeps,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		memIndex:    memIndex,
		schedule:    schedule,
		gc:          gc,
	}, nil
}

// newSource picks the local YAML file when configured, Raindrop otherwise.
func newSource(cfg *config.Config, httpClient *http.Client, log logger.Logger) (syncer.BookmarkSource, error) {
	if cfg.BookmarkFile != "" {
		log.Info("using local bookmark file", logger.String("file", cfg.BookmarkFile))
		return local.NewSource(cfg.BookmarkFile, cfg.SourceTag, log), nil
	}

	src, err := raindrop.NewSource(raindrop.Options{
		BaseURL: cfg.RaindropURL,
		Token:   cfg.RaindropToken,
		Tag:     cfg.SourceTag,
		PerPage: cfg.RaindropPerPage,
	}, httpClient, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create raindrop source: %w", err)
	}
	return src, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Linkpost v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.gc.Start(ctx)
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval),
		logger.Duration("retention", a.cfg.HistoryRetention))

	if a.schedule != nil {
		a.schedule.Start(ctx)
		a.logger.Info("sync schedule started",
			logger.String("expr", a.schedule.Expr()),
			logger.String("timezone", a.cfg.Timezone),
			logger.Time("next", a.schedule.Next()))
	} else {
		a.logger.Info("sync schedule disabled, sync runs on demand only")
	}

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

	if a.schedule != nil {
		a.schedule.Stop()
	}
	a.gc.Stop()

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

	a.logger.Info("✅ Linkpost stopped cleanly",
		logger.Int("records_kept", a.memIndex.Count()))
	_ = a.logger.Sync()
	return nil
}
