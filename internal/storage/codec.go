package storage

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/partyscore/internal/model"
)

// SchemaVersion is written into every stored document.
// Version 0 (absent) is the legacy layout and is migrated on decode.
const SchemaVersion = 2

type envelope struct {
	Version       int                 `json:"version"`
	Players       model.Ledger        `json:"players"`
	Actions       model.Ledger        `json:"actions"`
	UsedActions   map[string][]string `json:"used_actions"`
	History       []model.Event       `json:"history"`
	AdminPassword *string             `json:"admin_password"`
}

// rawEnvelope defers decoding of the fields whose shape changed between versions
type rawEnvelope struct {
	Version       int                  `json:"version"`
	Players       model.Ledger         `json:"players"`
	Actions       json.RawMessage      `json:"actions"`
	UsedActions   *map[string][]string `json:"used_actions"`
	History       []model.Event        `json:"history"`
	AdminPassword *string              `json:"admin_password"`
}

// legacyAction is the oldest action layout, with a single global used flag
type legacyAction struct {
	Points int  `json:"points"`
	Used   bool `json:"used"`
}

// Encode serializes a document in the current schema
func Encode(doc *model.Document) ([]byte, error) {
	return json.MarshalIndent(envelope{
		Version:       SchemaVersion,
		Players:       doc.Players,
		Actions:       doc.Actions,
		UsedActions:   doc.UsedActions,
		History:       doc.History,
		AdminPassword: doc.AdminPassword,
	}, "", "  ")
}

// Decode parses a stored document, migrating older layouts. Any failure
// is reported as model.ErrParse.
func Decode(data []byte) (*model.Document, error) {
	var raw rawEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrParse, err)
	}
	if raw.Version > SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema version %d", model.ErrParse, raw.Version)
	}

	actions, err := decodeActions(raw.Actions)
	if err != nil {
		return nil, fmt.Errorf("%w: actions: %v", model.ErrParse, err)
	}

	doc := &model.Document{
		Players:       raw.Players,
		Actions:       actions,
		History:       raw.History,
		AdminPassword: raw.AdminPassword,
	}
	if raw.UsedActions != nil {
		doc.UsedActions = *raw.UsedActions
	}
	if doc.History == nil {
		doc.History = []model.Event{}
	}
	backfillUsedActions(doc)
	if raw.Version == 0 {
		replayHistory(doc)
	}
	return doc, nil
}

// decodeActions accepts both integer values and legacy {points, used} objects.
// The legacy used flag was global rather than per player and is dropped;
// replayHistory recovers who used what.
func decodeActions(data json.RawMessage) (model.Ledger, error) {
	var actions model.Ledger
	if len(data) == 0 {
		return actions, nil
	}
	err := model.DecodeObject(data, func(key string, value json.RawMessage) error {
		var points int
		if err := json.Unmarshal(value, &points); err == nil {
			actions.Set(key, points)
			return nil
		}
		var legacy legacyAction
		if err := json.Unmarshal(value, &legacy); err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}
		actions.Set(key, legacy.Points)
		return nil
	})
	return actions, err
}

// backfillUsedActions gives every player a used list and drops lists of
// players that no longer exist
func backfillUsedActions(doc *model.Document) {
	if doc.UsedActions == nil {
		doc.UsedActions = make(map[string][]string, doc.Players.Len())
	}
	for _, name := range doc.Players.Names() {
		if doc.UsedActions[name] == nil {
			doc.UsedActions[name] = []string{}
		}
	}
	for name := range doc.UsedActions {
		if !doc.Players.Has(name) {
			delete(doc.UsedActions, name)
		}
	}
}

// replayHistory marks every (player, action) pair in a legacy document's
// history as used, so nothing already awarded can be awarded again.
// Events for removed players or actions are skipped.
func replayHistory(doc *model.Document) {
	for _, e := range doc.History {
		if !doc.Players.Has(e.Player) || !doc.Actions.Has(e.Action) || doc.HasUsed(e.Player, e.Action) {
			continue
		}
		doc.UsedActions[e.Player] = append(doc.UsedActions[e.Player], e.Action)
	}
}
