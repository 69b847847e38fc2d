// Package lookup maps category keys (session kinds, constructor ids, circuit ids) to display
// metadata. Unknown keys never fail: they fall back to a default color and an upper-cased label.
package lookup

import (
	"strings"
	"sync"
)

// TeamInfo is the display metadata of one constructor.
type TeamInfo struct {
	Color     string `json:"color" validate:"required,hexcolor"`
	Shorthand string `json:"shorthand" validate:"required"`
	Name      string `json:"name" validate:"required"`
}

// Document is the serialized form of the table (built-in defaults or an override file).
type Document struct {
	Sessions map[string]string   `json:"sessions" validate:"dive,required"`
	Teams    map[string]TeamInfo `json:"teams" validate:"dive"`
	Circuits map[string]string   `json:"circuits" validate:"dive,required"`
}

// Team is a resolved constructor. Known is false when the fallback was used.
type Team struct {
	Key       string `json:"key"`
	Color     string `json:"color"`
	Shorthand string `json:"shorthand"`
	Name      string `json:"name"`
	Known     bool   `json:"known"`
}

// Table is safe for concurrent use; the file watcher replaces it while handlers read it.
type Table struct {
	mu  sync.RWMutex
	doc Document
}

// NewTable returns a table holding the built-in defaults.
func NewTable() *Table {
	return &Table{doc: Defaults()}
}

// Replace swaps the table contents for defaults merged with doc.
func (t *Table) Replace(doc Document) {
	merged := Merge(Defaults(), doc)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.doc = merged
}

// SessionLabel returns the display label for a session kind.
func (t *Table) SessionLabel(kind string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if label, ok := t.doc.Sessions[kind]; ok {
		return label
	}
	return strings.ToUpper(kind)
}

// Team resolves a constructor id, matched case-insensitively.
func (t *Table) Team(id string) Team {
	key := strings.ToLower(strings.TrimSpace(id))
	t.mu.RLock()
	info, ok := t.doc.Teams[key]
	t.mu.RUnlock()
	if !ok {
		return Team{
			Key:       key,
			Color:     DefaultColor,
			Shorthand: strings.ToUpper(key),
			Name:      strings.ToUpper(key),
		}
	}
	return Team{Key: key, Color: info.Color, Shorthand: info.Shorthand, Name: info.Name, Known: true}
}

// FlagCode returns the country code shown for a circuit.
func (t *Table) FlagCode(circuitID string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	code, ok := t.doc.Circuits[circuitID]
	return code, ok
}

// Merge returns base with every entry of override applied on top. Neither input is modified.
func Merge(base, override Document) Document {
	out := Document{
		Sessions: make(map[string]string, len(base.Sessions)+len(override.Sessions)),
		Teams:    make(map[string]TeamInfo, len(base.Teams)+len(override.Teams)),
		Circuits: make(map[string]string, len(base.Circuits)+len(override.Circuits)),
	}
	for _, d := range []Document{base, override} {
		for k, v := range d.Sessions {
			out.Sessions[k] = v
		}
		for k, v := range d.Teams {
			out.Teams[strings.ToLower(k)] = v
		}
		for k, v := range d.Circuits {
			out.Circuits[k] = v
		}
	}
	return out
}
