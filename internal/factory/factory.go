package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/partyscore/internal/dependencies/clock"
	"github.com/mcoot/partyscore/internal/services/auth"
	"github.com/mcoot/partyscore/internal/services/housekeeping"
	"github.com/mcoot/partyscore/internal/services/scoreboard"
	"github.com/mcoot/partyscore/internal/storage"
	"github.com/mcoot/partyscore/internal/storage/file"
	"github.com/mcoot/partyscore/internal/storage/memory"
	redisstorage "github.com/mcoot/partyscore/internal/storage/redis"
	"github.com/mcoot/partyscore/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeFile   = "file"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	Scoreboard   *scoreboard.Controller
	AuthService  *auth.Service
	Hub          *sse.Hub
	Broadcaster  *sse.Broadcaster
	Housekeeping *housekeeping.Service

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// HousekeepingConfig sets background job intervals (optional)
	HousekeepingConfig housekeeping.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "file" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// DataPath is the document location for the file backend
	// If empty, defaults to file.DefaultPath
	DataPath string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeFile:
		path := cfg.DataPath
		if path == "" {
			path = file.DefaultPath
		}
		store = file.New(path)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'file' or 'redis'", storageType)
	}

	authCfg := cfg.AuthConfig
	if authCfg == (auth.Config{}) {
		authCfg = auth.DefaultConfig()
	}
	if authCfg.HashScheme == "" {
		authCfg.HashScheme = auth.SchemeSHA256
	}

	hkCfg := cfg.HousekeepingConfig
	if hkCfg == (housekeeping.Config{}) {
		hkCfg = housekeeping.DefaultConfig()
	}

	app, err := newWithDependencies(store, clock.New(), authCfg, hkCfg, logger)
	if err != nil {
		closeStorage(store)
		return nil, err
	}

	logger.Info("application wired", slog.String("storage", storageType))
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, authCfg auth.Config, hkCfg housekeeping.Config, logger *slog.Logger) (*App, error) {
	controller := scoreboard.NewController(store, clk, logger)

	authService, err := auth.New(store, clk, authCfg, logger)
	if err != nil {
		return nil, err
	}

	hub := sse.NewHub(logger)
	broadcaster := sse.NewBroadcaster(hub, controller, logger)

	hk, err := housekeeping.New(hkCfg, authService, controller, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:      store,
		Clock:        clk,
		Scoreboard:   controller,
		AuthService:  authService,
		Hub:          hub,
		Broadcaster:  broadcaster,
		Housekeeping: hk,
		logger:       logger,
	}, nil
}

// Start launches the background goroutines: the SSE hub and housekeeping jobs
func (a *App) Start() {
	go a.Hub.Run()
	a.Housekeeping.Start()
}

// Close stops background work and releases the storage backend
func (a *App) Close() error {
	a.Hub.Close()
	err := a.Housekeeping.Stop()
	if cerr := closeStorage(a.Storage); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

func closeStorage(store storage.Storage) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
