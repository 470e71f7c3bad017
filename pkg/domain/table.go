package domain

import (
	"fmt"
	"slices"
)

// Entry is a single row of a transition table.
type Entry struct {
	Key        Key
	Transition Transition
}

// Table is the immutable transition function of a machine.
// Once built it is never mutated, so one Table can be read by any number of
// machines concurrently.
type Table struct {
	entries map[Key]Transition
}

// TableBuilder accumulates entries and rejects duplicates.
type TableBuilder struct {
	entries map[Key]Transition
}

// NewTableBuilder creates an empty builder.
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{entries: make(map[Key]Transition)}
}

// Add registers a transition for (state, symbol).
// Returns ErrDuplicateTransition if the pair is already defined.
func (b *TableBuilder) Add(state State, symbol Symbol, t Transition) error {
	if t == nil {
		return fmt.Errorf("nil transition for %s%s", state, symbol)
	}
	key := Key{State: state, Symbol: symbol}
	if _, exists := b.entries[key]; exists {
		return fmt.Errorf("%w from state '%s' and symbol '%s'", ErrDuplicateTransition, state, symbol)
	}
	b.entries[key] = t
	return nil
}

// Has reports whether (state, symbol) is already defined.
func (b *TableBuilder) Has(state State, symbol Symbol) bool {
	_, ok := b.entries[Key{State: state, Symbol: symbol}]
	return ok
}

// Build freezes the builder into a Table. The builder must not be reused.
func (b *TableBuilder) Build() *Table {
	t := &Table{entries: b.entries}
	b.entries = nil
	return t
}

// NewTable builds a table from a list of entries.
func NewTable(entries ...Entry) (*Table, error) {
	b := NewTableBuilder()
	for _, e := range entries {
		if err := b.Add(e.Key.State, e.Key.Symbol, e.Transition); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Lookup returns the transition for the exact (state, symbol) pair.
func (t *Table) Lookup(state State, symbol Symbol) (Transition, bool) {
	if t == nil {
		return nil, false
	}
	tr, ok := t.entries[Key{State: state, Symbol: symbol}]
	return tr, ok
}

// Len returns the number of defined transitions.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns all transitions sorted by state, then symbol.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.entries))
	for k, tr := range t.entries {
		out = append(out, Entry{Key: k, Transition: tr})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if a.Key.State != b.Key.State {
			return int(a.Key.State) - int(b.Key.State)
		}
		return int(a.Key.Symbol) - int(b.Key.Symbol)
	})
	return out
}

// States returns every state that appears in the table, as source or target, sorted.
func (t *Table) States() []State {
	seen := make(map[State]struct{})
	for _, e := range t.Entries() {
		seen[e.Key.State] = struct{}{}
		if m, ok := e.Transition.(Move); ok {
			seen[m.Next] = struct{}{}
		}
	}
	out := make([]State, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Symbols returns every symbol read or written by the table, sorted.
func (t *Table) Symbols() []Symbol {
	seen := make(map[Symbol]struct{})
	for _, e := range t.Entries() {
		seen[e.Key.Symbol] = struct{}{}
		if m, ok := e.Transition.(Move); ok {
			seen[m.Write] = struct{}{}
		}
	}
	out := make([]Symbol, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}
