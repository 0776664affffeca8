package scoreboard

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mcoot/partyscore/internal/model"
)

// DefaultHistoryLimit is how many events the recent-history views show
const DefaultHistoryLimit = 8

// The functions in this file are the game rules. Each validates fully
// before touching the document, so a rejected call leaves it unchanged.

// AddPlayer registers a new player with a zero score and no used actions
func AddPlayer(doc *model.Document, name string) error {
	if isBlank(name) {
		return model.ErrEmptyName
	}
	if doc.Players.Has(name) {
		return model.ErrDuplicatePlayer
	}

	doc.Players.Set(name, 0)
	if doc.UsedActions == nil {
		doc.UsedActions = make(map[string][]string)
	}
	doc.UsedActions[name] = []string{}
	return nil
}

// AddAction defines an action. Redefining an existing name overwrites its
// points in place and keeps whoever already used it marked as used.
func AddAction(doc *model.Document, name string, points int) error {
	if isBlank(name) {
		return model.ErrEmptyName
	}
	doc.Actions.Set(name, points)
	return nil
}

// RenameAction relabels an action and sets its points. Consumption state
// follows the new name; scores and history are not touched.
func RenameAction(doc *model.Document, oldName, newName string, points int) error {
	if !doc.Actions.Has(oldName) {
		return model.ErrActionNotFound
	}
	if isBlank(newName) {
		return model.ErrEmptyName
	}
	if newName != oldName && doc.Actions.Has(newName) {
		return model.ErrDuplicateAction
	}

	if newName != oldName {
		doc.Actions.Delete(oldName)
		for player, used := range doc.UsedActions {
			doc.UsedActions[player] = replaceAll(used, oldName, newName)
		}
	}
	doc.Actions.Set(newName, points)
	return nil
}

// DeleteAction removes an action and forgets who used it.
// History and awarded scores stay as they were.
func DeleteAction(doc *model.Document, name string) error {
	if !doc.Actions.Has(name) {
		return model.ErrActionNotFound
	}

	doc.Actions.Delete(name)
	for player, used := range doc.UsedActions {
		doc.UsedActions[player] = removeAll(used, name)
	}
	return nil
}

// Assign credits player with action's current points and marks the action
// consumed for that player. It returns the points awarded.
func Assign(doc *model.Document, player, action, timestamp string) (int, error) {
	if !doc.Players.Has(player) {
		return 0, model.ErrPlayerNotFound
	}
	points, ok := doc.Actions.Get(action)
	if !ok {
		return 0, model.ErrActionNotFound
	}
	if doc.HasUsed(player, action) {
		return 0, model.ErrAlreadyUsed
	}

	doc.Players.Add(player, points)
	if doc.UsedActions == nil {
		doc.UsedActions = make(map[string][]string)
	}
	doc.UsedActions[player] = append(doc.UsedActions[player], action)
	doc.History = append(doc.History, model.Event{
		Time:   timestamp,
		Player: player,
		Action: action,
		Points: points,
	})
	return points, nil
}

// AvailableActions lists the actions player has not used yet, in action order.
// An unknown player simply has every action available.
func AvailableActions(doc *model.Document, player string) []string {
	available := []string{}
	for _, name := range doc.Actions.Names() {
		if !doc.HasUsed(player, name) {
			available = append(available, name)
		}
	}
	return available
}

// Leaderboard ranks players by score, highest first. Equal scores keep the
// order in which the players were added.
func Leaderboard(doc *model.Document) []model.Standing {
	entries := doc.Players.Entries()
	slices.SortStableFunc(entries, func(a, b model.Entry) int {
		return cmp.Compare(b.Points, a.Points)
	})

	standings := make([]model.Standing, len(entries))
	for i, e := range entries {
		standings[i] = model.Standing{Rank: i + 1, Player: e.Name, Score: e.Points}
	}
	return standings
}

// Reset zeroes every score and clears consumption and history.
// Player and action definitions and the admin password survive.
func Reset(doc *model.Document) {
	for _, name := range doc.Players.Names() {
		doc.Players.Set(name, 0)
	}
	doc.UsedActions = make(map[string][]string, doc.Players.Len())
	for _, name := range doc.Players.Names() {
		doc.UsedActions[name] = []string{}
	}
	doc.History = []model.Event{}
}

// RecentHistory returns the last n events, most recent first
func RecentHistory(doc *model.Document, n int) []model.Event {
	if n <= 0 {
		return []model.Event{}
	}
	start := max(len(doc.History)-n, 0)

	recent := make([]model.Event, 0, len(doc.History)-start)
	for i := len(doc.History) - 1; i >= start; i-- {
		recent = append(recent, doc.History[i])
	}
	return recent
}

// Summarize builds the end-of-night overview, players in leaderboard order
func Summarize(doc *model.Document) model.Summary {
	summary := model.Summary{
		PlayerCount: doc.Players.Len(),
		ActionCount: doc.Actions.Len(),
		EventCount:  len(doc.History),
	}
	for _, e := range doc.History {
		summary.PointsAwarded += e.Points
	}
	for _, st := range Leaderboard(doc) {
		summary.Players = append(summary.Players, model.PlayerSummary{
			Player:    st.Player,
			Score:     st.Score,
			Completed: len(doc.Used(st.Player)),
			Remaining: len(AvailableActions(doc, st.Player)),
		})
	}
	return summary
}

// isBlank treats whitespace-only names as empty; other names are kept verbatim
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func replaceAll(list []string, from, to string) []string {
	out := make([]string, len(list))
	for i, v := range list {
		if v == from {
			v = to
		}
		out[i] = v
	}
	return out
}

func removeAll(list []string, name string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != name {
			out = append(out, v)
		}
	}
	return out
}
