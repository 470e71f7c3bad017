package runtime_test

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func move(w domain.Symbol, m domain.Movement, next domain.State) domain.Transition {
	return domain.Move{Write: w, Next: next, Movement: m}
}

func entry(s domain.State, sym domain.Symbol, t domain.Transition) domain.Entry {
	return domain.Entry{Key: domain.Key{State: s, Symbol: sym}, Transition: t}
}

// compareSchematic accepts iff the number of marks right of home is <= the
// number of marks left of home. The home cell must hold the blank symbol.
func compareSchematic(t *testing.T) *domain.Schematic {
	t.Helper()
	table, err := domain.NewTable(
		entry('S', '_', move('*', domain.Right, 'R')),
		entry('R', 'o', move('o', domain.Right, 'R')),
		entry('R', 'x', move('o', domain.Left, 'B')),
		entry('R', '_', domain.Halt{Kind: domain.Accept}),
		entry('B', 'o', move('o', domain.Left, 'B')),
		entry('B', '*', move('*', domain.Left, 'L')),
		entry('L', 'o', move('o', domain.Left, 'L')),
		entry('L', 'x', move('o', domain.Right, 'F')),
		entry('L', '_', domain.Halt{Kind: domain.Reject}),
		entry('F', 'o', move('o', domain.Right, 'F')),
		entry('F', '*', move('*', domain.Right, 'R')),
	)
	require.NoError(t, err)
	return domain.NewSchematic('S', '_', table)
}

func marks(n int) []domain.Symbol {
	out := make([]domain.Symbol, n)
	for i := range out {
		out[i] = 'x'
	}
	return out
}

func compareTape(s *domain.Schematic, right, left int) *tape.Tape {
	r := append([]domain.Symbol{s.BlankSymbol()}, marks(right)...)
	return tape.New(s.BlankSymbol(), r, marks(left))
}

func runToHalt(t *testing.T, m *runtime.Machine, limit int) {
	t.Helper()
	for i := 0; i < limit && !m.Halted(); i++ {
		m.Step()
	}
	require.True(t, m.Halted(), "machine did not halt within %d steps", limit)
}

func TestMachine_CompareAccepts(t *testing.T) {
	s := compareSchematic(t)
	m := runtime.NewMachine(s, compareTape(s, 3, 7))

	runToHalt(t, m, 10_000)

	kind, ok := m.HaltKind()
	require.True(t, ok)
	assert.Equal(t, domain.Accept, kind)
}

func TestMachine_CompareRejects(t *testing.T) {
	s := compareSchematic(t)
	m := runtime.NewMachine(s, compareTape(s, 7, 3))

	runToHalt(t, m, 10_000)

	kind, ok := m.HaltKind()
	require.True(t, ok)
	assert.Equal(t, domain.Reject, kind)
}

func TestMachine_CompareTable(t *testing.T) {
	s := compareSchematic(t)
	for right := 0; right <= 5; right++ {
		for left := 0; left <= 5; left++ {
			m := runtime.NewMachine(s, compareTape(s, right, left))
			runToHalt(t, m, 10_000)
			kind, _ := m.HaltKind()
			want := domain.Reject
			if right <= left {
				want = domain.Accept
			}
			assert.Equal(t, want, kind, "right=%d left=%d", right, left)
		}
	}
}

func TestMachine_InitialState(t *testing.T) {
	s := compareSchematic(t)
	m := runtime.NewMachine(s, tape.New('_', nil, nil))

	assert.False(t, m.Halted())
	_, ok := m.HaltKind()
	assert.False(t, ok)
	assert.Equal(t, domain.State('S'), m.State())
	assert.Zero(t, m.Steps())
}

func TestMachine_StepOrder(t *testing.T) {
	// Write must happen at the old head position, before the move.
	table, err := domain.NewTable(entry('a', '_', move('w', domain.Left, 'b')))
	require.NoError(t, err)
	s := domain.NewSchematic('a', '_', table)

	m := runtime.NewMachine(s, tape.New('_', nil, nil))
	m.Step()

	assert.False(t, m.Halted())
	assert.Equal(t, domain.State('b'), m.State())
	assert.Equal(t, -1, m.Tape().Head())
	assert.Equal(t, domain.Symbol('w'), m.Tape().At(0))
	assert.Equal(t, domain.Symbol('_'), m.Tape().Read())
}

func TestMachine_MissingTransitionRejects(t *testing.T) {
	table, err := domain.NewTable(
		entry('a', 'x', move('y', domain.Right, 'b')),
		// state b has no entry for '_'
	)
	require.NoError(t, err)
	s := domain.NewSchematic('a', '_', table)
	m := runtime.NewMachine(s, tape.MustParse("x", '_'))

	m.Step()
	require.False(t, m.Halted())
	before := m.Tape().String()
	head := m.Tape().Head()

	m.Step()

	kind, ok := m.HaltKind()
	require.True(t, ok)
	assert.Equal(t, domain.Reject, kind)
	assert.Equal(t, domain.State('b'), m.State(), "state unchanged by the halting step")
	assert.Equal(t, before, m.Tape().String(), "tape unchanged by the halting step")
	assert.Equal(t, head, m.Tape().Head())
}

func TestMachine_EmptyTableRejectsImmediately(t *testing.T) {
	s := domain.NewSchematic('q', '_', nil)
	m := runtime.NewMachine(s, tape.New(s.BlankSymbol(), nil, nil))

	m.Step()

	kind, ok := m.HaltKind()
	require.True(t, ok)
	assert.Equal(t, domain.Reject, kind)
	assert.Equal(t, uint64(1), m.Steps())
	assert.Equal(t, "_", m.Tape().String())
	assert.Equal(t, 0, m.Tape().Head())
}

func TestMachine_ExplicitHaltLeavesTape(t *testing.T) {
	table, err := domain.NewTable(entry('q', 'a', domain.Halt{Kind: domain.Accept}))
	require.NoError(t, err)
	m := runtime.NewMachine(domain.NewSchematic('q', '_', table), tape.MustParse("l|ab", '_'))

	m.Step()

	kind, _ := m.HaltKind()
	assert.Equal(t, domain.Accept, kind)
	assert.Equal(t, "l|ab", m.Tape().String())
	assert.Equal(t, domain.State('q'), m.State())
}

func TestMachine_StepAfterHaltIsIdempotent(t *testing.T) {
	s := compareSchematic(t)
	m := runtime.NewMachine(s, compareTape(s, 2, 4))
	runToHalt(t, m, 10_000)

	kind, _ := m.HaltKind()
	state := m.State()
	steps := m.Steps()
	snapshot := m.Tape().String()
	head := m.Tape().Head()

	for i := 0; i < 50; i++ {
		assert.NotPanics(t, m.Step)
	}

	k2, ok := m.HaltKind()
	assert.True(t, ok)
	assert.Equal(t, kind, k2)
	assert.Equal(t, state, m.State())
	assert.Equal(t, steps, m.Steps())
	assert.Equal(t, snapshot, m.Tape().String())
	assert.Equal(t, head, m.Tape().Head())
}

func TestMachine_Hooks(t *testing.T) {
	s := compareSchematic(t)

	var steps []*domain.StepEvent
	var halts []*domain.HaltEvent
	hooks := domain.LifecycleHooks{
		OnStep: func(e *domain.StepEvent) { steps = append(steps, e) },
		OnHalt: func(e *domain.HaltEvent) { halts = append(halts, e) },
	}

	m := runtime.NewMachine(s, compareTape(s, 0, 0), runtime.WithLifecycleHooks(hooks))
	runToHalt(t, m, 100)
	m.Step()

	require.Len(t, steps, 1)
	assert.Equal(t, domain.StepEvent{Step: 1, From: 'S', Read: '_', Write: '*', Movement: domain.Right, To: 'R', Head: 1}, *steps[0])

	require.Len(t, halts, 1, "halt hook fires exactly once")
	assert.Equal(t, domain.HaltEvent{Step: 2, State: 'R', Read: '_', Kind: domain.Accept}, *halts[0])
}

func TestMachine_HookReportsImplicitReject(t *testing.T) {
	var got *domain.HaltEvent
	m := runtime.NewMachine(domain.NewSchematic('q', 'b', nil), tape.New('b', nil, nil),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnHalt: func(e *domain.HaltEvent) { got = e },
		}))

	m.Step()

	require.NotNil(t, got)
	assert.True(t, got.Implicit)
	assert.Equal(t, domain.Reject, got.Kind)
}

func TestMachine_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := compareSchematic(t)
	m := runtime.NewMachine(s, compareTape(s, 0, 0), runtime.WithLogger(logger))
	runToHalt(t, m, 100)

	out := buf.String()
	assert.Contains(t, out, "msg=step")
	assert.Contains(t, out, "action=*>R")
	assert.Contains(t, out, "verdict=ACCEPT")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestMachine_SharedSchematicConcurrent(t *testing.T) {
	s := compareSchematic(t)

	var wg sync.WaitGroup
	results := make([]domain.HaltKind, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := runtime.NewMachine(s, compareTape(s, i%8, 4))
			for !m.Halted() {
				m.Step()
			}
			results[i], _ = m.HaltKind()
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		want := domain.Reject
		if i%8 <= 4 {
			want = domain.Accept
		}
		assert.Equal(t, want, got, "machine %d", i)
	}
}
