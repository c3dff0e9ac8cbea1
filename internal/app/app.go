package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/viddst/internal/config"
	"github.com/MrSnakeDoc/viddst/internal/domain"
	"github.com/MrSnakeDoc/viddst/internal/history"
	"github.com/MrSnakeDoc/viddst/internal/httpserver"
	"github.com/MrSnakeDoc/viddst/internal/httpserver/deps"
	"github.com/MrSnakeDoc/viddst/internal/logger"
	"github.com/MrSnakeDoc/viddst/internal/redis"
	"github.com/MrSnakeDoc/viddst/internal/scheduler"
	filestore "github.com/MrSnakeDoc/viddst/internal/store/file"
	redisstore "github.com/MrSnakeDoc/viddst/internal/store/redis"
	sqlitestore "github.com/MrSnakeDoc/viddst/internal/store/sqlite"
	"github.com/MrSnakeDoc/viddst/internal/utils"
	"github.com/MrSnakeDoc/viddst/internal/version"
)

type App struct {
	cfg       *config.Config
	logger    logger.Logger
	server    *httpserver.Server
	refresher *scheduler.HistoryRefresher
	closers   []namedCloser
}

type namedCloser struct {
	name string
	c    io.Closer
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog, logger.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   true,
	})

	backend, closers, err := openBackend(context.Background(), cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open %s history backend: %v", cfg.HistoryBackend, err)
		os.Exit(1)
	}
	loggerClient.Info("history backend ready",
		logger.String("backend", cfg.HistoryBackend))

	store := history.NewStore(backend, loggerClient)

	refreshTrigger := make(chan struct{}, 1)
	refresher := scheduler.NewHistoryRefresher(store, loggerClient, cfg.HistoryRefreshInterval, refreshTrigger)

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
		History:        store,
		HistoryBackend: cfg.HistoryBackend,
		RefreshTrigger: refreshTrigger,
		Embed:          domain.NewEmbedBuilder(cfg.EmbedHost),
		RateBurst:      cfg.RateBurst,
		RatePerMin:     cfg.RatePerMin,
	}

	return &App{
		cfg:       cfg,
		logger:    loggerClient,
		server:    httpserver.New(cfg, loggerClient, d),
		refresher: refresher,
		closers:   closers,
	}
}

// openBackend connects the configured history backend. The returned closers
// must be closed on shutdown, in order.
func openBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (history.Backend, []namedCloser, error) {
	switch cfg.HistoryBackend {
	case config.BackendFile:
		b := filestore.New(nil, cfg.HistoryFile)
		log.Info("using file history backend", logger.String("path", b.Path()))
		return b, nil, nil

	case config.BackendSQLite:
		b, err := sqlitestore.Open(cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		return b, []namedCloser{{name: "sqlite", c: b}}, nil

	case config.BackendRedis:
		client, err := redis.New(ctx, redis.ConnectOptions{
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
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewStore(client), []namedCloser{{name: "redis", c: client}}, nil

	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting viddst %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info("build info",
		logger.String("version", version.Version),
		logger.String("commit", version.Commit),
		logger.String("built", version.BuildDate),
		logger.String("go", version.GoVersion),
		logger.String("embed_host", a.cfg.EmbedHost))

	defer func() { _ = a.logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.refresher.Start(ctx)
	if a.cfg.HistoryRefreshInterval > 0 {
		a.logger.Info("history refresher started",
			logger.Duration("interval", a.cfg.HistoryRefreshInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.refresher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	for _, nc := range a.closers {
		utils.CloseLogged(nc.c, nc.name, a.logger)
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ viddst stopped cleanly")
	return nil
}
