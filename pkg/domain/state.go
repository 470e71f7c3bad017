package domain

import (
	"fmt"
	"unicode/utf8"
)

// Symbol is a single cell value on the tape.
type Symbol rune

// String returns the symbol as a one-rune string.
func (s Symbol) String() string {
	return string(rune(s))
}

// State identifies a control state of the machine.
// It shares its representation with Symbol but is a distinct type.
type State rune

// String returns the state as a one-rune string.
func (s State) String() string {
	return string(rune(s))
}

// Movement is the head movement applied after a write.
type Movement int

const (
	Left Movement = iota
	Right
	Stay
)

// String returns the movement in the program notation ('<', '>', '=').
func (m Movement) String() string {
	switch m {
	case Left:
		return "<"
	case Right:
		return ">"
	case Stay:
		return "="
	default:
		return fmt.Sprintf("Movement(%d)", int(m))
	}
}

// Name returns the long, human readable name of the movement.
func (m Movement) Name() string {
	switch m {
	case Left:
		return "left"
	case Right:
		return "right"
	case Stay:
		return "stay"
	default:
		return m.String()
	}
}

// ParseMovement accepts both the program notation ('<', '>', '=') and the long names.
func ParseMovement(s string) (Movement, error) {
	switch s {
	case "<", "left", "L":
		return Left, nil
	case ">", "right", "R":
		return Right, nil
	case "=", "stay", "S":
		return Stay, nil
	}
	return 0, fmt.Errorf("invalid movement direction %q", s)
}

// HaltKind is the verdict of a halted machine.
type HaltKind int

const (
	Accept HaltKind = iota
	Reject
)

// String returns "ACCEPT" or "REJECT".
func (k HaltKind) String() string {
	switch k {
	case Accept:
		return "ACCEPT"
	case Reject:
		return "REJECT"
	default:
		return fmt.Sprintf("HaltKind(%d)", int(k))
	}
}

// Keyword returns the three letter program keyword (ACC / REJ).
func (k HaltKind) Keyword() string {
	if k == Accept {
		return "ACC"
	}
	return "REJ"
}

// MarshalText implements encoding.TextMarshaler.
func (k HaltKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseHaltKind accepts ACCEPT/ACC/accept and REJECT/REJ/reject.
func ParseHaltKind(s string) (HaltKind, error) {
	switch s {
	case "ACCEPT", "ACC", "accept", "acc":
		return Accept, nil
	case "REJECT", "REJ", "reject", "rej":
		return Reject, nil
	}
	return 0, fmt.Errorf("invalid halt kind %q", s)
}

// SingleRune returns the only rune of s, or false when s is not exactly one rune long.
func SingleRune(s string) (rune, bool) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}

// MarshalText implements encoding.TextMarshaler so symbols serialize as strings.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Symbol) UnmarshalText(text []byte) error {
	r, ok := SingleRune(string(text))
	if !ok {
		return fmt.Errorf("symbol must be exactly one character, got %q", text)
	}
	*s = Symbol(r)
	return nil
}

// MarshalText implements encoding.TextMarshaler so states serialize as strings.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	r, ok := SingleRune(string(text))
	if !ok {
		return fmt.Errorf("state must be exactly one character, got %q", text)
	}
	*s = State(r)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Movement) MarshalText() ([]byte, error) {
	return []byte(m.Name()), nil
}
