package runtime

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// Machine is the execution engine of a single Turing machine run.
// It owns its state and tape and shares the transition table of its Schematic.
type Machine struct {
	state  domain.State
	tape   *tape.Tape
	table  *domain.Table
	halt   domain.HaltKind
	halted bool
	steps  uint64

	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithLogger sets the structured logger used for step tracing.
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) MachineOption {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// NewMachine creates a running machine in the schematic's initial state.
// The machine takes ownership of t.
func NewMachine(schematic *domain.Schematic, t *tape.Tape, opts ...MachineOption) *Machine {
	m := &Machine{
		state:  schematic.InitialState(),
		tape:   t,
		table:  schematic.Table(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Step performs one step of computation. It is a no-op once the machine halted.
//
// A missing (state, symbol) entry behaves exactly like a Reject halt.
// A Move writes, then moves, then changes state. A Halt leaves tape and state as they are.
func (m *Machine) Step() {
	if m.halted {
		return
	}

	read := m.tape.Read()
	transition, defined := m.table.Lookup(m.state, read)
	if !defined {
		transition = domain.ImplicitReject
	}
	m.steps++

	switch t := transition.(type) {
	case domain.Move:
		from := m.state
		m.tape.Write(t.Write)
		m.tape.Move(t.Movement)
		m.state = t.Next

		if m.logger.Enabled(context.Background(), slog.LevelDebug) {
			m.logger.Debug("step",
				"step", m.steps,
				"from", from.String(),
				"read", read.String(),
				"action", t.String(),
				"head", m.tape.Head(),
			)
		}
		if m.hooks.OnStep != nil {
			m.hooks.OnStep(&domain.StepEvent{
				Step:     m.steps,
				From:     from,
				Read:     read,
				Write:    t.Write,
				Movement: t.Movement,
				To:       t.Next,
				Head:     m.tape.Head(),
			})
		}
	case domain.Halt:
		m.halt = t.Kind
		m.halted = true

		m.logger.Info("machine halted",
			"verdict", t.Kind.String(),
			"state", m.state.String(),
			"read", read.String(),
			"steps", m.steps,
			"implicit", !defined,
		)
		if m.hooks.OnHalt != nil {
			m.hooks.OnHalt(&domain.HaltEvent{
				Step:     m.steps,
				State:    m.state,
				Read:     read,
				Kind:     t.Kind,
				Implicit: !defined,
			})
		}
	}
}

// Halted reports whether the machine reached a halting transition.
func (m *Machine) Halted() bool {
	return m.halted
}

// HaltKind returns the verdict, or false while the machine is running.
func (m *Machine) HaltKind() (domain.HaltKind, bool) {
	return m.halt, m.halted
}

// State returns the current control state.
func (m *Machine) State() domain.State {
	return m.state
}

// Steps returns how many steps were executed, the halting one included.
func (m *Machine) Steps() uint64 {
	return m.steps
}

// Tape returns the tape for inspection. Callers must not mutate it.
func (m *Machine) Tape() *tape.Tape {
	return m.tape
}
