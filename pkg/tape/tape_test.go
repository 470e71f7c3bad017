package tape_test

import (
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syms(s string) []domain.Symbol {
	var out []domain.Symbol
	for _, r := range s {
		out = append(out, domain.Symbol(r))
	}
	return out
}

func TestNew_EmptyTapeMaterializesHome(t *testing.T) {
	tp := tape.New('_', nil, nil)

	assert.Equal(t, 0, tp.Head())
	assert.Equal(t, domain.Symbol('_'), tp.Read())
	lo, hi := tp.Bounds()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 0, hi)
	assert.Equal(t, 1, tp.Len(), "exactly one home cell")
}

func TestNew_CopiesInput(t *testing.T) {
	right := syms("abc")
	tp := tape.New('_', right, nil)
	right[0] = 'z'
	assert.Equal(t, domain.Symbol('a'), tp.Read())
}

func TestAddressing(t *testing.T) {
	// right: positions 0..2, left: positions -1..-2 (nearest first)
	tp := tape.New('_', syms("abc"), syms("xy"))

	assert.Equal(t, domain.Symbol('a'), tp.At(0))
	assert.Equal(t, domain.Symbol('c'), tp.At(2))
	assert.Equal(t, domain.Symbol('x'), tp.At(-1))
	assert.Equal(t, domain.Symbol('y'), tp.At(-2))
	assert.Equal(t, domain.Symbol('_'), tp.At(-3), "unmaterialized reads blank")
	assert.Equal(t, domain.Symbol('_'), tp.At(99))

	lo, hi := tp.Bounds()
	assert.Equal(t, -2, lo)
	assert.Equal(t, 2, hi)
	assert.Equal(t, 5, tp.Len(), "At must not grow the tape")

	tp.Move(domain.Left)
	assert.Equal(t, domain.Symbol('x'), tp.Read())
	tp.Move(domain.Left)
	assert.Equal(t, domain.Symbol('y'), tp.Read())
}

func TestMove_GrowsBothDirections(t *testing.T) {
	tp := tape.New('_', nil, nil)

	for i := 1; i <= 100; i++ {
		tp.Move(domain.Right)
		require.Equal(t, i, tp.Head())
		require.Equal(t, domain.Symbol('_'), tp.Read())
		tp.Write('r')
	}
	for i := 99; i >= -100; i-- {
		tp.Move(domain.Left)
		require.Equal(t, i, tp.Head())
		_ = tp.Read()
		tp.Write('l')
	}

	lo, hi := tp.Bounds()
	assert.Equal(t, -100, lo)
	assert.Equal(t, 100, hi)
	assert.Equal(t, 201, tp.Len())
}

func TestMove_Stay(t *testing.T) {
	tp := tape.New('_', syms("a"), nil)
	tp.Move(domain.Stay)
	assert.Equal(t, 0, tp.Head())
	assert.Equal(t, 1, tp.Len())
}

func TestRoundTripAddressing(t *testing.T) {
	paths := [][]domain.Movement{
		{domain.Left, domain.Left, domain.Right, domain.Right},
		{domain.Right, domain.Right, domain.Right, domain.Left, domain.Left, domain.Left},
		{domain.Left, domain.Right, domain.Right, domain.Stay, domain.Left},
		{domain.Right, domain.Left, domain.Left, domain.Left, domain.Right, domain.Right},
	}

	for _, start := range []int{-3, 0, 4} {
		for _, path := range paths {
			tp := tape.New('_', nil, nil)
			for tp.Head() != start {
				if tp.Head() < start {
					tp.Move(domain.Right)
				} else {
					tp.Move(domain.Left)
				}
			}
			tp.Write('#')

			for _, m := range path {
				tp.Move(m)
			}
			require.Equal(t, start, tp.Head(), "path must return to the start")
			assert.Equal(t, domain.Symbol('#'), tp.Read())
			assert.Equal(t, domain.Symbol('#'), tp.At(start))
		}
	}
}

func TestClone_Independent(t *testing.T) {
	tp := tape.New('_', syms("ab"), nil)
	cp := tp.Clone()
	cp.Write('z')
	cp.Move(domain.Left)

	assert.Equal(t, domain.Symbol('a'), tp.Read())
	assert.Equal(t, 0, tp.Head())
	assert.Equal(t, -1, cp.Head())
	assert.Equal(t, domain.Symbol('z'), cp.At(0))
}

func TestCells(t *testing.T) {
	tp := tape.New('_', syms("ab"), syms("x"))
	assert.Equal(t, syms("_xab_"), tp.Cells(-2, 2))
	assert.Nil(t, tp.Cells(1, 0))
}
