package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Entry is a single name/value pair in a Ledger
type Entry struct {
	Name   string
	Points int
}

// Ledger is an insertion-ordered mapping from name to integer points.
// It serializes as a JSON object whose key order is the insertion order.
// The zero value is an empty ledger.
type Ledger struct {
	entries []Entry
}

// NewLedger builds a ledger from entries, later duplicates overwriting earlier ones
func NewLedger(entries ...Entry) Ledger {
	var l Ledger
	for _, e := range entries {
		l.Set(e.Name, e.Points)
	}
	return l
}

// Len returns the number of entries
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Get returns the points stored under name
func (l *Ledger) Get(name string) (int, bool) {
	i := l.indexOf(name)
	if i < 0 {
		return 0, false
	}
	return l.entries[i].Points, true
}

// Has reports whether name is present
func (l *Ledger) Has(name string) bool {
	return l.indexOf(name) >= 0
}

// Set stores points under name. An existing entry keeps its position.
func (l *Ledger) Set(name string, points int) {
	if i := l.indexOf(name); i >= 0 {
		l.entries[i].Points = points
		return
	}
	l.entries = append(l.entries, Entry{Name: name, Points: points})
}

// Add adds delta to the entry under name, creating it at zero if absent
func (l *Ledger) Add(name string, delta int) int {
	i := l.indexOf(name)
	if i < 0 {
		l.entries = append(l.entries, Entry{Name: name})
		i = len(l.entries) - 1
	}
	l.entries[i].Points += delta
	return l.entries[i].Points
}

// Delete removes name, preserving the order of the remaining entries
func (l *Ledger) Delete(name string) bool {
	i := l.indexOf(name)
	if i < 0 {
		return false
	}
	l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
	if len(l.entries) == 0 {
		l.entries = nil
	}
	return true
}

// Names returns the entry names in order
func (l *Ledger) Names() []string {
	names := make([]string, len(l.entries))
	for i, e := range l.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the entries in order
func (l *Ledger) Entries() []Entry {
	if l.entries == nil {
		return nil
	}
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clone returns an independent copy
func (l Ledger) Clone() Ledger {
	return Ledger{entries: l.Entries()}
}

func (l *Ledger) indexOf(name string) int {
	for i, e := range l.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// MarshalJSON writes the ledger as an object in insertion order
func (l Ledger) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range l.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", e.Points)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of integers, keeping key order
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var out Ledger
	err := DecodeObject(data, func(key string, raw json.RawMessage) error {
		var points int
		if err := json.Unmarshal(raw, &points); err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}
		out.Set(key, points)
		return nil
	})
	if err != nil {
		return err
	}
	*l = out
	return nil
}

// DecodeObject walks a JSON object in document order, handing each key and
// its raw value to fn. A JSON null is treated as an empty object.
func DecodeObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("expected a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.New("expected an object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
