// Package tape implements the unbounded, lazily growing tape of a Turing machine.
package tape

import (
	"github.com/aretw0/turing/pkg/domain"
)

// Tape is an infinite sequence of symbols with a movable head.
//
// Position 0 is the home cell. Non-negative positions live in right (home first),
// negative positions live in left (position -1 first). The head is always inside
// the materialized cells, so Read and Write never need bounds handling.
type Tape struct {
	blank domain.Symbol
	right []domain.Symbol
	left  []domain.Symbol
	head  int
}

// New creates a tape from initial content. right holds positions 0, 1, 2, ...
// and left holds positions -1, -2, .... The slices are copied.
// If right is empty a single blank home cell is materialized.
func New(blank domain.Symbol, right, left []domain.Symbol) *Tape {
	t := &Tape{
		blank: blank,
		right: append([]domain.Symbol(nil), right...),
		left:  append([]domain.Symbol(nil), left...),
	}
	if len(t.right) == 0 {
		t.right = append(t.right, blank)
	}
	return t
}

// Blank returns the blank symbol of the tape.
func (t *Tape) Blank() domain.Symbol {
	return t.blank
}

// Read returns the symbol under the head.
func (t *Tape) Read() domain.Symbol {
	if t.head < 0 {
		return t.left[-t.head-1]
	}
	return t.right[t.head]
}

// Write overwrites the symbol under the head.
func (t *Tape) Write(s domain.Symbol) {
	if t.head < 0 {
		t.left[-t.head-1] = s
	} else {
		t.right[t.head] = s
	}
}

// Move moves the head one cell, growing the tape by one blank cell when the
// head would leave the materialized region.
func (t *Tape) Move(m domain.Movement) {
	switch m {
	case domain.Left:
		if t.head-1 < -len(t.left) {
			t.left = append(t.left, t.blank)
		}
		t.head--
	case domain.Right:
		if t.head+1 >= len(t.right) {
			t.right = append(t.right, t.blank)
		}
		t.head++
	case domain.Stay:
	}
}

// Head returns the head position relative to the home cell.
func (t *Tape) Head() int {
	return t.head
}

// At returns the symbol at an absolute position without moving the head.
// Positions outside the materialized cells read as blank and are not created.
func (t *Tape) At(pos int) domain.Symbol {
	if pos < 0 {
		i := -pos - 1
		if i < len(t.left) {
			return t.left[i]
		}
		return t.blank
	}
	if pos < len(t.right) {
		return t.right[pos]
	}
	return t.blank
}

// Bounds returns the lowest and highest materialized positions (inclusive).
func (t *Tape) Bounds() (lo, hi int) {
	return -len(t.left), len(t.right) - 1
}

// Len returns the number of materialized cells.
func (t *Tape) Len() int {
	return len(t.left) + len(t.right)
}

// Cells returns the symbols in [lo, hi], reading through At.
func (t *Tape) Cells(lo, hi int) []domain.Symbol {
	if hi < lo {
		return nil
	}
	out := make([]domain.Symbol, 0, hi-lo+1)
	for p := lo; p <= hi; p++ {
		out = append(out, t.At(p))
	}
	return out
}

// Clone returns an independent copy of the tape, head included.
func (t *Tape) Clone() *Tape {
	return &Tape{
		blank: t.blank,
		right: append([]domain.Symbol(nil), t.right...),
		left:  append([]domain.Symbol(nil), t.left...),
		head:  t.head,
	}
}
