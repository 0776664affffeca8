package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/partyscore/internal/model"
)

// EventScoreboardUpdate is the SSE event sent after every mutation
const EventScoreboardUpdate = "scoreboard-update"

// Source is the read side of the scoreboard that updates are built from
type Source interface {
	Leaderboard(ctx context.Context) ([]model.Standing, error)
	RecentHistory(ctx context.Context, n int) ([]model.Event, error)
}

// StandingPayload is one leaderboard row as sent to clients
type StandingPayload struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Score  int    `json:"score"`
}

// UpdatePayload is the data of a scoreboard-update event
type UpdatePayload struct {
	Leaderboard []StandingPayload `json:"leaderboard"`
	History     []model.Event     `json:"history"`
}

// Broadcaster builds scoreboard updates and pushes them through the hub
type Broadcaster struct {
	hub    *Hub
	source Source
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, source Source, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		source: source,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Hub returns the hub updates are sent through
func (b *Broadcaster) Hub() *Hub {
	return b.hub
}

// Snapshot renders the current scoreboard as a complete SSE message
func (b *Broadcaster) Snapshot(ctx context.Context) ([]byte, error) {
	data, err := b.payload(ctx)
	if err != nil {
		return nil, err
	}
	return formatSSEMessage(EventScoreboardUpdate, data), nil
}

// BroadcastScoreboard pushes the current leaderboard and recent history
// to every client. Failures are logged, never returned: the mutation that
// triggered the update has already been saved.
func (b *Broadcaster) BroadcastScoreboard(ctx context.Context) {
	if b.hub.ClientCount() == 0 {
		return
	}
	data, err := b.payload(ctx)
	if err != nil {
		b.logger.Error("sse failed to build scoreboard update", slog.String("error", err.Error()))
		return
	}
	b.hub.BroadcastEvent(EventScoreboardUpdate, data)
}

func (b *Broadcaster) payload(ctx context.Context) (string, error) {
	standings, err := b.source.Leaderboard(ctx)
	if err != nil {
		return "", err
	}
	history, err := b.source.RecentHistory(ctx, 0)
	if err != nil {
		return "", err
	}

	p := UpdatePayload{
		Leaderboard: make([]StandingPayload, 0, len(standings)),
		History:     history,
	}
	for _, s := range standings {
		p.Leaderboard = append(p.Leaderboard, StandingPayload{Rank: s.Rank, Player: s.Player, Score: s.Score})
	}
	if p.History == nil {
		p.History = []model.Event{}
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
