package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error to stderr
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case PlayerList:
		o.printEntries("Player", "Score", v.Players, "No players yet")
	case ActionList:
		o.printEntries("Action", "Points", v.Actions, "No actions yet")
	case Entry:
		fmt.Fprintf(o.w, "%s: %d\n", v.Name, v.Points)
	case Available:
		o.printAvailable(v)
	case Event:
		fmt.Fprintf(o.w, "%s gets %d points for %s (%s)\n", v.Player, v.Points, v.Action, v.Time)
	case History:
		o.printHistory(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case Summary:
		o.printSummary(v)
	case AdminStatus:
		o.printAdminStatus(v)
	case Session:
		fmt.Fprintln(o.w, "Logged in as admin")
		if v.ExpiresAt != nil {
			fmt.Fprintf(o.w, "Session expires: %s\n", v.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Entry response type: a player's score or an action's points
type Entry struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// PlayerList response type
type PlayerList struct {
	Players []Entry `json:"players"`
}

// ActionList response type
type ActionList struct {
	Actions []Entry `json:"actions"`
}

// Available response type
type Available struct {
	Player  string   `json:"player"`
	Actions []string `json:"actions"`
}

// Event response type
type Event struct {
	Time   string `json:"time"`
	Player string `json:"player"`
	Action string `json:"action"`
	Points int    `json:"points"`
}

// History response type
type History struct {
	Events []Event `json:"events"`
}

// Standing response type
type Standing struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Score  int    `json:"score"`
}

// Leaderboard response type
type Leaderboard struct {
	Standings []Standing `json:"standings"`
}

// PlayerSummary response type
type PlayerSummary struct {
	Player    string `json:"player"`
	Score     int    `json:"score"`
	Completed int    `json:"completed"`
	Remaining int    `json:"remaining"`
}

// Summary response type
type Summary struct {
	Players       []PlayerSummary `json:"players"`
	PlayerCount   int             `json:"player_count"`
	ActionCount   int             `json:"action_count"`
	EventCount    int             `json:"event_count"`
	PointsAwarded int             `json:"points_awarded"`
}

// AdminStatus response type
type AdminStatus struct {
	PasswordSet   bool `json:"password_set"`
	Authenticated bool `json:"authenticated"`
}

// Session response type
type Session struct {
	SessionToken string     `json:"session_token"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) table() *tabwriter.Writer {
	return tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
}

func (o *Output) printEntries(nameHeader, pointsHeader string, entries []Entry, empty string) {
	if len(entries) == 0 {
		fmt.Fprintln(o.w, empty)
		return
	}
	tw := o.table()
	fmt.Fprintf(tw, "%s\t%s\n", nameHeader, pointsHeader)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\n", e.Name, e.Points)
	}
	_ = tw.Flush()
}

func (o *Output) printAvailable(a Available) {
	if len(a.Actions) == 0 {
		fmt.Fprintf(o.w, "%s has done everything!\n", a.Player)
		return
	}
	fmt.Fprintf(o.w, "Available for %s:\n", a.Player)
	for _, name := range a.Actions {
		fmt.Fprintf(o.w, "  - %s\n", name)
	}
}

func (o *Output) printHistory(h History) {
	if len(h.Events) == 0 {
		fmt.Fprintln(o.w, "No history yet")
		return
	}
	for _, e := range h.Events {
		fmt.Fprintf(o.w, "[%s] %s: %s (%+d)\n", e.Time, e.Player, e.Action, e.Points)
	}
}

func (o *Output) printLeaderboard(l Leaderboard) {
	if len(l.Standings) == 0 {
		fmt.Fprintln(o.w, "No players yet")
		return
	}
	tw := o.table()
	fmt.Fprintln(tw, "#\tPlayer\tScore")
	for _, s := range l.Standings {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", s.Rank, s.Player, s.Score)
	}
	_ = tw.Flush()
}

func (o *Output) printSummary(s Summary) {
	fmt.Fprintf(o.w, "Players: %d  Actions: %d  Events: %d  Points awarded: %d\n",
		s.PlayerCount, s.ActionCount, s.EventCount, s.PointsAwarded)
	if len(s.Players) == 0 {
		return
	}
	fmt.Fprintln(o.w)
	tw := o.table()
	fmt.Fprintln(tw, "Player\tScore\tDone\tLeft")
	for _, p := range s.Players {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", p.Player, p.Score, p.Completed, p.Remaining)
	}
	_ = tw.Flush()
}

func (o *Output) printAdminStatus(s AdminStatus) {
	fmt.Fprintf(o.w, "Password set: %s\n", yesNo(s.PasswordSet))
	fmt.Fprintf(o.w, "Logged in: %s\n", yesNo(s.Authenticated))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// truncate shortens s for single-line display
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
