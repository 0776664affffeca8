package response

import (
	"time"

	"github.com/mcoot/partyscore/internal/model"
	"github.com/mcoot/partyscore/internal/services/auth"
)

// Entry is a named points value: a player's score or an action's reward
type Entry struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// EntriesFromModel converts ledger entries, never returning nil
func EntriesFromModel(entries []model.Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{Name: e.Name, Points: e.Points}
	}
	return out
}

// PlayerList is the response for GET /players
type PlayerList struct {
	Players []Entry `json:"players"`
}

// ActionList is the response for GET /actions
type ActionList struct {
	Actions []Entry `json:"actions"`
}

// Available is the response for GET /players/{name}/available
type Available struct {
	Player  string   `json:"player"`
	Actions []string `json:"actions"`
}

// Event represents one history entry
type Event struct {
	Time   string `json:"time"`
	Player string `json:"player"`
	Action string `json:"action"`
	Points int    `json:"points"`
}

// EventFromModel converts model.Event
func EventFromModel(e model.Event) Event {
	return Event{Time: e.Time, Player: e.Player, Action: e.Action, Points: e.Points}
}

// History is the response for GET /history
type History struct {
	Events []Event `json:"events"`
}

// HistoryFromModel converts events, never returning a nil list
func HistoryFromModel(events []model.Event) History {
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = EventFromModel(e)
	}
	return History{Events: out}
}

// Standing is one leaderboard row
type Standing struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Score  int    `json:"score"`
}

// Leaderboard is the response for GET /leaderboard
type Leaderboard struct {
	Standings []Standing `json:"standings"`
}

// LeaderboardFromModel converts standings
func LeaderboardFromModel(standings []model.Standing) Leaderboard {
	out := make([]Standing, len(standings))
	for i, s := range standings {
		out[i] = Standing{Rank: s.Rank, Player: s.Player, Score: s.Score}
	}
	return Leaderboard{Standings: out}
}

// PlayerSummary is one player's row in the summary
type PlayerSummary struct {
	Player    string `json:"player"`
	Score     int    `json:"score"`
	Completed int    `json:"completed"`
	Remaining int    `json:"remaining"`
}

// Summary is the response for GET /summary
type Summary struct {
	Players       []PlayerSummary `json:"players"`
	PlayerCount   int             `json:"player_count"`
	ActionCount   int             `json:"action_count"`
	EventCount    int             `json:"event_count"`
	PointsAwarded int             `json:"points_awarded"`
}

// SummaryFromModel converts model.Summary
func SummaryFromModel(s model.Summary) Summary {
	players := make([]PlayerSummary, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerSummary{Player: p.Player, Score: p.Score, Completed: p.Completed, Remaining: p.Remaining}
	}
	return Summary{
		Players:       players,
		PlayerCount:   s.PlayerCount,
		ActionCount:   s.ActionCount,
		EventCount:    s.EventCount,
		PointsAwarded: s.PointsAwarded,
	}
}

// AdminStatus is the response for GET /admin/status
type AdminStatus struct {
	PasswordSet   bool `json:"password_set"`
	Authenticated bool `json:"authenticated"`
}

// Session is the response for POST /admin/login
type Session struct {
	SessionToken string     `json:"session_token"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// SessionFromAuth converts an auth.Session
func SessionFromAuth(s *auth.Session) Session {
	resp := Session{SessionToken: s.Token}
	if !s.ExpiresAt.IsZero() {
		t := s.ExpiresAt
		resp.ExpiresAt = &t
	}
	return resp
}
