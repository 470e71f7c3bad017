package compiler

import (
	"bytes"
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format renders a schematic in the canonical .turing text form.
// Transitions are sorted by state, then symbol.
func Format(s *domain.Schematic) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s%s\n", initialStatePrefix, s.InitialState())
	fmt.Fprintf(&buf, "%s%s]\n", blankSymbolPrefix, s.BlankSymbol())
	buf.WriteString(transitionsHeader + "\n")
	for _, e := range s.Table().Entries() {
		fmt.Fprintf(&buf, "%s: %s\n", e.Key, e.Transition)
	}
	return buf.Bytes()
}

// FormatYAML renders a schematic in the YAML encoding.
func FormatYAML(s *domain.Schematic) ([]byte, error) {
	type entry struct {
		State string `yaml:"state"`
		Read  string `yaml:"read"`
		Write string `yaml:"write,omitempty"`
		Move  string `yaml:"move,omitempty"`
		Next  string `yaml:"next,omitempty"`
		Halt  string `yaml:"halt,omitempty"`
	}
	doc := struct {
		InitialState string  `yaml:"initial_state"`
		BlankSymbol  string  `yaml:"blank_symbol"`
		Transitions  []entry `yaml:"transitions"`
	}{
		InitialState: s.InitialState().String(),
		BlankSymbol:  s.BlankSymbol().String(),
	}

	for _, e := range s.Table().Entries() {
		row := entry{State: e.Key.State.String(), Read: e.Key.Symbol.String()}
		switch t := e.Transition.(type) {
		case domain.Move:
			row.Write = t.Write.String()
			row.Move = t.Movement.String()
			row.Next = t.Next.String()
		case domain.Halt:
			row.Halt = t.Kind.Keyword()
		}
		doc.Transitions = append(doc.Transitions, row)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Equal reports whether two schematics describe the same program.
func Equal(a, b *domain.Schematic) bool {
	return bytes.Equal(Format(a), Format(b))
}
