/*
Package domain contains the core value types of the Turing machine engine.

It defines the alphabet (Symbol), the control states (State), head movements,
halting verdicts, transitions and the immutable program description (Schematic).
This package is kept pure and free of I/O, following the same hexagonal split as
the rest of the module: parsers, stores and presentation live in adapters.

# Key Entities

  - Symbol / State: opaque single-rune values, distinct types so they cannot be mixed up.
  - Movement: Left, Right or Stay.
  - Transition: either a Move (write, move, next state) or a Halt (Accept / Reject).
  - Table: the immutable (State, Symbol) -> Transition lookup.
  - Schematic: initial state + blank symbol + Table, shared read-only by every machine.
*/
package domain
