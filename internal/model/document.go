package model

// TimeFormat is the wall-clock layout used for history timestamps
const TimeFormat = "15:04:05"

// Event is one entry of the assignment history. Events are never edited
// once written, even if the action is later renamed or deleted.
type Event struct {
	Time   string `json:"time"`
	Player string `json:"player"`
	Action string `json:"action"`
	Points int    `json:"points"`
}

// Document is the whole game state, persisted as a single JSON object
type Document struct {
	Players       Ledger              `json:"players"`
	Actions       Ledger              `json:"actions"`
	UsedActions   map[string][]string `json:"used_actions"`
	History       []Event             `json:"history"`
	AdminPassword *string             `json:"admin_password"`
}

// NewDocument returns the empty document used when nothing is stored yet
func NewDocument() *Document {
	return &Document{
		UsedActions: make(map[string][]string),
		History:     []Event{},
	}
}

// PasswordSet reports whether an admin password has been configured
func (d *Document) PasswordSet() bool {
	return d.AdminPassword != nil
}

// Used returns the actions already consumed by player
func (d *Document) Used(player string) []string {
	return d.UsedActions[player]
}

// HasUsed reports whether player has already consumed action
func (d *Document) HasUsed(player, action string) bool {
	for _, a := range d.UsedActions[player] {
		if a == action {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	c := &Document{
		Players: d.Players.Clone(),
		Actions: d.Actions.Clone(),
	}
	if d.UsedActions != nil {
		c.UsedActions = make(map[string][]string, len(d.UsedActions))
		for player, used := range d.UsedActions {
			if used == nil {
				c.UsedActions[player] = nil
				continue
			}
			cp := make([]string, len(used))
			copy(cp, used)
			c.UsedActions[player] = cp
		}
	}
	if d.History != nil {
		c.History = make([]Event, len(d.History))
		copy(c.History, d.History)
	}
	if d.AdminPassword != nil {
		pw := *d.AdminPassword
		c.AdminPassword = &pw
	}
	return c
}

// Standing is one row of the leaderboard
type Standing struct {
	Rank   int
	Player string
	Score  int
}

// PlayerSummary aggregates one player's progress
type PlayerSummary struct {
	Player    string
	Score     int
	Completed int
	Remaining int
}

// Summary is the end-of-night overview of the whole game
type Summary struct {
	Players       []PlayerSummary
	PlayerCount   int
	ActionCount   int
	EventCount    int
	PointsAwarded int
}
