package turing

import (
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// Machine is the high-level entry point of the library.
// It wraps the internal runtime and exposes a read-only view of the tape.
type Machine struct {
	runtime *runtime.Machine
}

// TapeView is the read-only face of a machine's tape.
type TapeView interface {
	Read() domain.Symbol
	At(pos int) domain.Symbol
	Head() int
	Bounds() (lo, hi int)
	Blank() domain.Symbol
	String() string
}

type config struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option defines a functional option for configuring a Machine.
type Option func(*config)

// WithLogger sets a structured logger. Steps are logged at debug level, the halt at info.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// New creates a running machine for schematic, positioned on the home cell of t.
// The machine takes ownership of t; the schematic is shared, never copied.
func New(schematic *domain.Schematic, t *tape.Tape, opts ...Option) *Machine {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	var runtimeOpts []runtime.MachineOption
	if cfg.logger != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithLogger(cfg.logger))
	}
	runtimeOpts = append(runtimeOpts, runtime.WithLifecycleHooks(cfg.hooks))

	return &Machine{runtime: runtime.NewMachine(schematic, t, runtimeOpts...)}
}

// NewFromNotation parses tape notation ("LEFT|RIGHT") with the schematic's blank
// symbol and creates a machine on it.
func NewFromNotation(schematic *domain.Schematic, notation string, opts ...Option) (*Machine, error) {
	t, err := tape.Parse(notation, schematic.BlankSymbol())
	if err != nil {
		return nil, err
	}
	return New(schematic, t, opts...), nil
}

// Step performs one step of computation. It is a no-op once the machine halted.
func (m *Machine) Step() {
	m.runtime.Step()
}

// Halted reports whether the machine reached a halting transition.
func (m *Machine) Halted() bool {
	return m.runtime.Halted()
}

// HaltKind returns the verdict once the machine halted.
func (m *Machine) HaltKind() (domain.HaltKind, bool) {
	return m.runtime.HaltKind()
}

// State returns the current state.
func (m *Machine) State() domain.State {
	return m.runtime.State()
}

// Steps returns the number of steps executed, the halting step included.
func (m *Machine) Steps() uint64 {
	return m.runtime.Steps()
}

// Tape returns a read-only view of the machine's tape.
func (m *Machine) Tape() TapeView {
	return tapeView{t: m.runtime.Tape()}
}

// tapeView hides the mutating half of *tape.Tape from callers.
type tapeView struct {
	t *tape.Tape
}

func (v tapeView) Read() domain.Symbol { return v.t.Read() }
func (v tapeView) At(pos int) domain.Symbol { return v.t.At(pos) }
func (v tapeView) Head() int { return v.t.Head() }
func (v tapeView) Bounds() (lo, hi int) { return v.t.Bounds() }
func (v tapeView) Blank() domain.Symbol { return v.t.Blank() }
func (v tapeView) String() string { return v.t.String() }

// Load reads a program file. Files ending in .yaml or .yml use the YAML form,
// anything else the .turing text form.
func Load(path string) (*domain.Schematic, error) {
	return compiler.Load(path)
}

// Parse reads a program in the .turing text form.
func Parse(r io.Reader) (*domain.Schematic, error) {
	return compiler.Parse(r)
}

// ParseString is Parse for in-memory sources.
func ParseString(source string) (*domain.Schematic, error) {
	return compiler.Parse(strings.NewReader(source))
}
