package domain

// Schematic is the parsed, immutable description of a Turing machine program.
// Machines built from the same Schematic share its Table by pointer.
type Schematic struct {
	initial State
	blank   Symbol
	table   *Table
}

// NewSchematic creates a schematic. A nil table behaves as an empty one.
func NewSchematic(initial State, blank Symbol, table *Table) *Schematic {
	if table == nil {
		table = &Table{entries: map[Key]Transition{}}
	}
	return &Schematic{
		initial: initial,
		blank:   blank,
		table:   table,
	}
}

// InitialState returns the state a new machine starts in.
func (s *Schematic) InitialState() State {
	return s.initial
}

// BlankSymbol returns the symbol used to fill unwritten tape cells.
func (s *Schematic) BlankSymbol() Symbol {
	return s.blank
}

// Table returns the shared transition table.
func (s *Schematic) Table() *Table {
	return s.table
}
