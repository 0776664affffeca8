package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcoot/partyscore/internal/factory"
	"github.com/mcoot/partyscore/internal/services/auth"
	"github.com/mcoot/partyscore/internal/storage/file"
)

// Config is the server's command-line and environment configuration
type Config struct {
	bind             string
	port             int
	storage          string
	dataPath         string
	redisURL         string
	redisPrefix      string
	hashScheme       string
	sessionDuration  time.Duration
	cleanupInterval  time.Duration
	snapshotInterval time.Duration
	publicURL        string
	verbose          bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.storage {
	case factory.StorageTypeFile, factory.StorageTypeMemory, factory.StorageTypeRedis:
	default:
		return fmt.Errorf("invalid storage %q (must be file, memory or redis)", c.storage)
	}
	switch c.hashScheme {
	case auth.SchemeSHA256, auth.SchemeBcrypt:
	default:
		return fmt.Errorf("invalid hash scheme %q (must be sha256 or bcrypt)", c.hashScheme)
	}
	if c.sessionDuration < 0 {
		return fmt.Errorf("invalid session duration: %s", c.sessionDuration)
	}
	if c.cleanupInterval <= 0 {
		return fmt.Errorf("invalid cleanup interval: %s", c.cleanupInterval)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PARTYSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "partyscore-server",
		Short:         "Scorekeeper for party games: players, one-time actions and a live leaderboard.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: PARTYSCORE_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: PARTYSCORE_PORT)")
	fs.StringVar(&cfg.storage, "storage", factory.StorageTypeFile, "storage backend: file, memory or redis (env: PARTYSCORE_STORAGE)")
	fs.StringVar(&cfg.dataPath, "data-path", file.DefaultPath, "document location for file storage (env: PARTYSCORE_DATA_PATH)")
	fs.StringVar(&cfg.redisURL, "redis-url", "redis://localhost:6379", "redis connection url (env: PARTYSCORE_REDIS_URL)")
	fs.StringVar(&cfg.redisPrefix, "redis-prefix", "partyscore", "redis key prefix, one per game (env: PARTYSCORE_REDIS_PREFIX)")
	fs.StringVar(&cfg.hashScheme, "hash-scheme", auth.SchemeSHA256, "how new admin passwords are stored: sha256 or bcrypt (env: PARTYSCORE_HASH_SCHEME)")
	fs.DurationVar(&cfg.sessionDuration, "session-duration", 12*time.Hour, "admin login lifetime, 0 for no expiry (env: PARTYSCORE_SESSION_DURATION)")
	fs.DurationVar(&cfg.cleanupInterval, "cleanup-interval", 10*time.Minute, "how often expired admin sessions are dropped (env: PARTYSCORE_CLEANUP_INTERVAL)")
	fs.DurationVar(&cfg.snapshotInterval, "snapshot-interval", 15*time.Minute, "how often standings are logged, 0 to disable (env: PARTYSCORE_SNAPSHOT_INTERVAL)")
	fs.StringVar(&cfg.publicURL, "public-url", "", "url encoded in the share qr code (env: PARTYSCORE_PUBLIC_URL)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log at debug level (env: PARTYSCORE_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
