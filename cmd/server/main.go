package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mcoot/partyscore/internal/api"
	"github.com/mcoot/partyscore/internal/factory"
	"github.com/mcoot/partyscore/internal/services/auth"
	"github.com/mcoot/partyscore/internal/services/housekeeping"
	redisstorage "github.com/mcoot/partyscore/internal/storage/redis"
	"github.com/mcoot/partyscore/internal/web"
)

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env", slog.String("error", err.Error()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	if err := newCmd(cfg).ExecuteContext(ctx); err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config) error {
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		AuthConfig: auth.Config{
			SessionDuration: cfg.sessionDuration,
			HashScheme:      cfg.hashScheme,
		},
		HousekeepingConfig: housekeeping.Config{
			SessionSweepInterval: cfg.cleanupInterval,
			SnapshotInterval:     cfg.snapshotInterval,
		},
		Logger:      logger,
		StorageType: cfg.storage,
		DataPath:    cfg.dataPath,
	}
	if cfg.storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.redisURL
		redisCfg.KeyPrefix = cfg.redisPrefix
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("shutdown cleanup failed", slog.String("error", err.Error()))
		}
	}()
	app.Start()

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Scoreboard:  app.Scoreboard,
		Broadcaster: app.Broadcaster,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:      logger,
		Scoreboard:  app.Scoreboard,
		PublicURL:   cfg.publicURL,
		LiveUpdates: true,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.bind
	serverConfig.Port = cfg.port
	server := api.NewServer(mux, serverConfig, logger)
	// Disconnect SSE clients first so shutdown does not wait on them
	server.OnShutdown(app.Hub.Close)

	if err := server.Listen(); err != nil {
		return err
	}
	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.storage),
	)

	return server.Run(ctx)
}
