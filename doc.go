/*
Package turing runs deterministic single-tape Turing machines.

A program (a Schematic) is an immutable triple of initial state, blank symbol and
transition table. Any number of machines can run against the same Schematic, each
with its own unbounded tape, head and current state. A missing transition is an
implicit reject, so stepping a machine never fails.

# Program format

	INITIAL STATE: S
	BLANK SYMBOL: [_]
	TRANSITIONS:
	S_: *>R
	R_: ACC

Each transition line is <state><symbol>: followed by ACC, REJ or
<write><move><next>, where move is one of '<', '>' or '='.

# Usage

	schematic, err := turing.Load("examples/compare.turing")
	if err != nil {
		log.Fatal(err)
	}

	m, err := turing.NewFromNotation(schematic, "xxxxxxx|_xxx")
	if err != nil {
		log.Fatal(err)
	}

	for !m.Halted() {
		m.Step()
	}

	kind, _ := m.HaltKind()
	fmt.Println(kind) // ACCEPT

For bounded runs, cancellation and animation see package runner.
*/
package turing
