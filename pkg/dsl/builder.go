package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

// Builder manages the program construction.
type Builder struct {
	initial domain.State
	blank   domain.Symbol
	states  map[domain.State]*StateBuilder
	order   []domain.State
}

// New creates a program builder with the given initial state and blank symbol.
func New(initial domain.State, blank domain.Symbol) *Builder {
	return &Builder{
		initial: initial,
		blank:   blank,
		states:  make(map[domain.State]*StateBuilder),
	}
}

// State returns the builder for the rules of state s.
// If the state already exists, it returns the existing builder.
func (b *Builder) State(s domain.State) *StateBuilder {
	if sb, ok := b.states[s]; ok {
		return sb
	}
	sb := &StateBuilder{state: s, builder: b}
	b.states[s] = sb
	b.order = append(b.order, s)
	return sb
}

// Build compiles the rules into a Schematic.
// Duplicate (state, symbol) pairs and rules without an action are reported together.
func (b *Builder) Build() (*domain.Schematic, error) {
	table := domain.NewTableBuilder()
	var errs []error

	for _, s := range b.order {
		for _, r := range b.states[s].rules {
			if r.transition == nil {
				errs = append(errs, fmt.Errorf("rule for state '%s' and symbol '%s' has no action", s, r.read))
				continue
			}
			if err := table.Add(s, r.read, r.transition); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to build program: %w", errors.Join(errs...))
	}
	return domain.NewSchematic(b.initial, b.blank, table.Build()), nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *domain.Schematic {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
