package compiler

import (
	"errors"
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

// yamlProgram is the YAML encoding of a schematic.
type yamlProgram struct {
	InitialState string      `yaml:"initial_state"`
	BlankSymbol  string      `yaml:"blank_symbol"`
	Transitions  []yaml.Node `yaml:"transitions"`
}

type yamlTransition struct {
	State string `yaml:"state"`
	Read  string `yaml:"read"`
	Write string `yaml:"write,omitempty"`
	Move  string `yaml:"move,omitempty"`
	Next  string `yaml:"next,omitempty"`
	Halt  string `yaml:"halt,omitempty"`
}

// ParseYAML parses the YAML encoding of a program.
func ParseYAML(data []byte) (*domain.Schematic, error) {
	var doc yamlProgram
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SyntaxError{Msg: fmt.Sprintf("invalid yaml: %v", err), Err: err}
	}

	initial, ok := domain.SingleRune(doc.InitialState)
	if !ok {
		return nil, &SyntaxError{Msg: "initial_state must be exactly one character"}
	}
	blank, ok := domain.SingleRune(doc.BlankSymbol)
	if !ok {
		return nil, &SyntaxError{Msg: "blank_symbol must be exactly one character"}
	}

	builder := domain.NewTableBuilder()
	for i := range doc.Transitions {
		node := &doc.Transitions[i]
		var raw yamlTransition
		if err := node.Decode(&raw); err != nil {
			return nil, &SyntaxError{Line: node.Line, Msg: fmt.Sprintf("malformed transition: %v", err), Err: err}
		}

		state, symbol, transition, err := raw.toDomain()
		if err != nil {
			return nil, &SyntaxError{Line: node.Line, Msg: err.Error(), Err: err}
		}
		if err := builder.Add(state, symbol, transition); err != nil {
			return nil, &SyntaxError{Line: node.Line, Msg: err.Error(), Err: err}
		}
	}

	return domain.NewSchematic(domain.State(initial), domain.Symbol(blank), builder.Build()), nil
}

func (t yamlTransition) toDomain() (domain.State, domain.Symbol, domain.Transition, error) {
	state, ok := domain.SingleRune(t.State)
	if !ok {
		return 0, 0, nil, fmt.Errorf("state must be exactly one character, got %q", t.State)
	}
	read, ok := domain.SingleRune(t.Read)
	if !ok {
		return 0, 0, nil, fmt.Errorf("read must be exactly one character, got %q", t.Read)
	}

	if t.Halt != "" {
		if t.Write != "" || t.Move != "" || t.Next != "" {
			return 0, 0, nil, errors.New("halt cannot be combined with write, move or next")
		}
		kind, err := domain.ParseHaltKind(t.Halt)
		if err != nil {
			return 0, 0, nil, err
		}
		return domain.State(state), domain.Symbol(read), domain.Halt{Kind: kind}, nil
	}

	write, ok := domain.SingleRune(t.Write)
	if !ok {
		return 0, 0, nil, fmt.Errorf("write must be exactly one character, got %q", t.Write)
	}
	next, ok := domain.SingleRune(t.Next)
	if !ok {
		return 0, 0, nil, fmt.Errorf("next must be exactly one character, got %q", t.Next)
	}
	movement, err := domain.ParseMovement(t.Move)
	if err != nil {
		return 0, 0, nil, err
	}

	return domain.State(state), domain.Symbol(read), domain.Move{
		Write:    domain.Symbol(write),
		Next:     domain.State(next),
		Movement: movement,
	}, nil
}
