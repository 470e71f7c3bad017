package tape

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Separator splits the left part from the home-and-right part in tape notation.
const Separator = '|'

// Escape makes the next character a literal cell, so `\|` is a cell holding
// the separator and `\\` one holding the escape itself.
const Escape = '\\'

// ErrNotation is returned for malformed tape notation.
var ErrNotation = errors.New("invalid tape notation")

// Parse builds a tape from notation "LEFT|RIGHT".
//
// LEFT is written in natural order (leftmost cell first) and ends just before the
// home cell; RIGHT starts at the home cell. Without a separator the whole string
// is RIGHT. An empty string yields a tape with a single blank home cell.
func Parse(notation string, blank domain.Symbol) (*Tape, error) {
	notation = strings.TrimRight(notation, "\r\n")

	var left, right []domain.Symbol
	found, escaped := false, false
	for _, r := range notation {
		switch {
		case escaped:
			right = append(right, domain.Symbol(r))
			escaped = false
		case r == Escape:
			escaped = true
		case r == Separator:
			if found {
				return nil, fmt.Errorf("%w: more than one %q in %q", ErrNotation, Separator, notation)
			}
			found = true
			left, right = right, nil
		default:
			right = append(right, domain.Symbol(r))
		}
	}
	if escaped {
		return nil, fmt.Errorf("%w: dangling %q at the end of %q", ErrNotation, Escape, notation)
	}

	// Stored nearest-to-home first.
	slices.Reverse(left)

	return New(blank, right, left), nil
}

// MustParse is like Parse but panics on error. Intended for tests and examples.
func MustParse(notation string, blank domain.Symbol) *Tape {
	t, err := Parse(notation, blank)
	if err != nil {
		panic(err)
	}
	return t
}

// String renders the materialized cells in the notation accepted by Parse.
// The separator is omitted when nothing lies left of the home cell.
func (t *Tape) String() string {
	var sb strings.Builder
	lo, hi := t.Bounds()
	for p := lo; p <= hi; p++ {
		if p == 0 && lo < 0 {
			sb.WriteRune(Separator)
		}
		r := rune(t.At(p))
		if r == Separator || r == Escape {
			sb.WriteRune(Escape)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
