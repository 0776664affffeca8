package housekeeping

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/mcoot/partyscore/internal/services/auth"
	"github.com/mcoot/partyscore/internal/services/scoreboard"
)

// Config holds scheduling intervals
type Config struct {
	// SessionSweepInterval is how often expired admin sessions are dropped
	SessionSweepInterval time.Duration
	// SnapshotInterval is how often a scoreboard snapshot is logged; zero disables it
	SnapshotInterval time.Duration
}

// DefaultConfig returns default housekeeping intervals
func DefaultConfig() Config {
	return Config{
		SessionSweepInterval: 10 * time.Minute,
		SnapshotInterval:     15 * time.Minute,
	}
}

// Service runs periodic background jobs. None of them mutate the document.
type Service struct {
	scheduler  gocron.Scheduler
	auth       *auth.Service
	scoreboard *scoreboard.Controller
	logger     *slog.Logger
}

// New creates the scheduler and registers the jobs; call Start to run them
func New(cfg Config, authService *auth.Service, controller *scoreboard.Controller, logger *slog.Logger) (*Service, error) {
	if cfg.SessionSweepInterval <= 0 {
		cfg.SessionSweepInterval = DefaultConfig().SessionSweepInterval
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Service{
		scheduler:  sched,
		auth:       authService,
		scoreboard: controller,
		logger:     logger.With(slog.String("component", "housekeeping")),
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(cfg.SessionSweepInterval),
		gocron.NewTask(func() { s.SweepSessions() }),
		gocron.WithName("sweep-admin-sessions"),
	); err != nil {
		return nil, err
	}

	if cfg.SnapshotInterval > 0 {
		if _, err := sched.NewJob(
			gocron.DurationJob(cfg.SnapshotInterval),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				s.LogSnapshot(ctx)
			}),
			gocron.WithName("scoreboard-snapshot"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Start begins running the scheduled jobs
func (s *Service) Start() {
	s.scheduler.Start()
	s.logger.Info("housekeeping started", slog.Int("jobs", len(s.scheduler.Jobs())))
}

// Stop shuts the scheduler down, waiting for running jobs
func (s *Service) Stop() error {
	return s.scheduler.Shutdown()
}

// SweepSessions drops expired admin sessions
func (s *Service) SweepSessions() int {
	removed := s.auth.CleanExpiredSessions()
	if removed > 0 {
		s.logger.Info("expired admin sessions removed", slog.Int("removed", removed))
	}
	return removed
}

// LogSnapshot records the current standings in the log
func (s *Service) LogSnapshot(ctx context.Context) {
	summary, err := s.scoreboard.Summary(ctx)
	if err != nil {
		s.logger.Error("snapshot failed", slog.String("error", err.Error()))
		return
	}

	attrs := []any{
		slog.Int("players", summary.PlayerCount),
		slog.Int("actions", summary.ActionCount),
		slog.Int("events", summary.EventCount),
		slog.Int("points_awarded", summary.PointsAwarded),
	}
	if len(summary.Players) > 0 {
		leader := summary.Players[0]
		attrs = append(attrs, slog.String("leader", leader.Player), slog.Int("leader_score", leader.Score))
	}
	s.logger.Info("scoreboard snapshot", attrs...)
}
