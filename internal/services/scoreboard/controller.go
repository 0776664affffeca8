package scoreboard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/partyscore/internal/dependencies/clock"
	"github.com/mcoot/partyscore/internal/model"
	"github.com/mcoot/partyscore/internal/storage"
)

// Controller runs the game rules against the stored document. Every
// mutation is a single storage update: load, apply, save.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new scoreboard Controller
func NewController(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Document returns the current document
func (c *Controller) Document(ctx context.Context) (*model.Document, error) {
	return c.storage.Load(ctx)
}

// Players returns all players with their scores, in the order they were added
func (c *Controller) Players(ctx context.Context) ([]model.Entry, error) {
	doc, err := c.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Players.Entries(), nil
}

// Actions returns all actions with their points, in definition order
func (c *Controller) Actions(ctx context.Context) ([]model.Entry, error) {
	doc, err := c.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Actions.Entries(), nil
}

// AddPlayer registers a new player
func (c *Controller) AddPlayer(ctx context.Context, name string) error {
	err := c.update(ctx, "add player", func(doc *model.Document) error {
		return AddPlayer(doc, name)
	})
	if err != nil {
		return err
	}

	c.logger.Info("player added", slog.String("player", name))
	return nil
}

// AddAction defines or redefines an action
func (c *Controller) AddAction(ctx context.Context, name string, points int) error {
	var existed bool
	err := c.update(ctx, "add action", func(doc *model.Document) error {
		existed = doc.Actions.Has(name)
		return AddAction(doc, name, points)
	})
	if err != nil {
		return err
	}

	c.logger.Info("action added",
		slog.String("action", name),
		slog.Int("points", points),
		slog.Bool("overwritten", existed),
	)
	return nil
}

// RenameAction renames an action and updates its points
func (c *Controller) RenameAction(ctx context.Context, oldName, newName string, points int) error {
	err := c.update(ctx, "rename action", func(doc *model.Document) error {
		return RenameAction(doc, oldName, newName, points)
	})
	if err != nil {
		return err
	}

	c.logger.Info("action renamed",
		slog.String("from", oldName),
		slog.String("to", newName),
		slog.Int("points", points),
	)
	return nil
}

// DeleteAction removes an action
func (c *Controller) DeleteAction(ctx context.Context, name string) error {
	err := c.update(ctx, "delete action", func(doc *model.Document) error {
		return DeleteAction(doc, name)
	})
	if err != nil {
		return err
	}

	c.logger.Info("action deleted", slog.String("action", name))
	return nil
}

// Assign credits player with action, stamped with the current wall-clock time
func (c *Controller) Assign(ctx context.Context, player, action string) (*model.Event, error) {
	timestamp := c.clock.Now().Format(model.TimeFormat)

	var event model.Event
	err := c.update(ctx, "assign", func(doc *model.Document) error {
		if _, err := Assign(doc, player, action, timestamp); err != nil {
			return err
		}
		event = doc.History[len(doc.History)-1]
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("points assigned",
		slog.String("player", player),
		slog.String("action", action),
		slog.Int("points", event.Points),
	)
	return &event, nil
}

// AvailableActions lists the actions player can still perform
func (c *Controller) AvailableActions(ctx context.Context, player string) ([]string, error) {
	doc, err := c.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !doc.Players.Has(player) {
		return nil, model.ErrPlayerNotFound
	}
	return AvailableActions(doc, player), nil
}

// Leaderboard returns the current ranking
func (c *Controller) Leaderboard(ctx context.Context) ([]model.Standing, error) {
	doc, err := c.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Leaderboard(doc), nil
}

// RecentHistory returns the last n events, most recent first.
// A non-positive n means DefaultHistoryLimit.
func (c *Controller) RecentHistory(ctx context.Context, n int) ([]model.Event, error) {
	if n <= 0 {
		n = DefaultHistoryLimit
	}
	doc, err := c.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	return RecentHistory(doc, n), nil
}

// Summary returns the game overview
func (c *Controller) Summary(ctx context.Context) (model.Summary, error) {
	doc, err := c.storage.Load(ctx)
	if err != nil {
		return model.Summary{}, err
	}
	return Summarize(doc), nil
}

// Reset starts a new round with the same players and actions
func (c *Controller) Reset(ctx context.Context) error {
	var events int
	err := c.update(ctx, "reset", func(doc *model.Document) error {
		events = len(doc.History)
		Reset(doc)
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Warn("scoreboard reset", slog.Int("cleared_events", events))
	return nil
}

// update applies fn through storage, logging failures that are not the caller's fault
func (c *Controller) update(ctx context.Context, op string, fn storage.UpdateFunc) error {
	err := c.storage.Update(ctx, fn)
	if err != nil && isStorageFailure(err) {
		c.logger.Error("scoreboard update failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
	}
	return err
}

func isStorageFailure(err error) bool {
	return errors.Is(err, model.ErrPersistence) ||
		errors.Is(err, model.ErrConflict) ||
		errors.Is(err, model.ErrParse)
}
