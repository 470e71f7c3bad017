package domain

import "fmt"

// Transition is the action taken for a (State, Symbol) pair.
// It is a closed set: Move and Halt are the only implementations.
type Transition interface {
	isTransition()
	String() string
}

// Move writes a symbol, moves the head and enters a new state.
type Move struct {
	// Write is the symbol written at the head before moving.
	Write Symbol
	// Next is the state entered after moving.
	Next State
	// Movement is applied after the write.
	Movement Movement
}

// Halt stops the machine with a verdict.
type Halt struct {
	Kind HaltKind
}

func (Move) isTransition() {}
func (Halt) isTransition() {}

// String renders the action in program notation, e.g. "y>2".
func (m Move) String() string {
	return fmt.Sprintf("%s%s%s", m.Write, m.Movement, m.Next)
}

// String renders the action in program notation (ACC / REJ).
func (h Halt) String() string {
	return h.Kind.Keyword()
}

// ImplicitReject is the transition used when the table has no entry for a pair.
var ImplicitReject Transition = Halt{Kind: Reject}

// Key is the composite lookup key of the transition table.
type Key struct {
	State  State
	Symbol Symbol
}

func (k Key) String() string {
	return k.State.String() + k.Symbol.String()
}
