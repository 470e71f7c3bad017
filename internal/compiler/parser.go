package compiler

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

const (
	initialStatePrefix = "INITIAL STATE: "
	blankSymbolPrefix  = "BLANK SYMBOL: ["
	transitionsHeader  = "TRANSITIONS:"
	// transitionWidth is the rune length of a transition line such as "1x: y>2".
	transitionWidth = 7
)

// SyntaxError describes a malformed program. Line is 1-based; 0 means end of input.
type SyntaxError struct {
	Line int
	Msg  string
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Encoding identifies how a program is written down.
type Encoding string

const (
	EncodingText Encoding = "turing"
	EncodingYAML Encoding = "yaml"
)

// EncodingFromPath picks the encoding from a file extension.
func EncodingFromPath(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EncodingYAML
	default:
		return EncodingText
	}
}

// Load reads and parses a program file, choosing the encoding by extension.
func Load(path string) (*domain.Schematic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return ParseBytes(data, EncodingFromPath(path))
}

// ParseBytes parses a program in the given encoding.
func ParseBytes(data []byte, enc Encoding) (*domain.Schematic, error) {
	if enc == EncodingYAML {
		return ParseYAML(data)
	}
	return Parse(bytes.NewReader(data))
}

type line struct {
	text string
	num  int
}

// Parse reads a program in the .turing text format.
func Parse(r io.Reader) (*domain.Schematic, error) {
	lines, err := significantLines(r)
	if err != nil {
		return nil, err
	}

	next := func(expected string) (line, error) {
		if len(lines) == 0 {
			return line{}, &SyntaxError{Msg: fmt.Sprintf("missing expected `%s` line", expected)}
		}
		l := lines[0]
		lines = lines[1:]
		return l, nil
	}

	l, err := next("INITIAL STATE: ...")
	if err != nil {
		return nil, err
	}
	initial, err := parseInitialState(l)
	if err != nil {
		return nil, err
	}

	l, err = next("BLANK SYMBOL: [...]")
	if err != nil {
		return nil, err
	}
	blank, err := parseBlankSymbol(l)
	if err != nil {
		return nil, err
	}

	l, err = next(transitionsHeader)
	if err != nil {
		return nil, err
	}
	if l.text != transitionsHeader {
		return nil, &SyntaxError{Line: l.num, Msg: "expected `TRANSITIONS:`"}
	}

	builder := domain.NewTableBuilder()
	for _, l := range lines {
		chars, err := transitionChars(l)
		if err != nil {
			return nil, err
		}
		state, symbol := domain.State(chars[0]), domain.Symbol(chars[1])
		// A repeated key is reported even when its action is malformed.
		if builder.Has(state, symbol) {
			err := fmt.Errorf("%w from state '%s' and symbol '%s'", domain.ErrDuplicateTransition, state, symbol)
			return nil, &SyntaxError{Line: l.num, Msg: err.Error(), Err: err}
		}
		transition, err := parseAction(l, chars[4:])
		if err != nil {
			return nil, err
		}
		if err := builder.Add(state, symbol, transition); err != nil {
			return nil, &SyntaxError{Line: l.num, Msg: err.Error(), Err: err}
		}
	}

	return domain.NewSchematic(initial, blank, builder.Build()), nil
}

// significantLines drops blank and comment lines and remembers line numbers.
func significantLines(r io.Reader) ([]line, error) {
	var out []line
	scanner := bufio.NewScanner(r)
	num := 0
	for scanner.Scan() {
		num++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		out = append(out, line{text: text, num: num})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return out, nil
}

func parseInitialState(l line) (domain.State, error) {
	rest, ok := strings.CutPrefix(l.text, initialStatePrefix)
	r, single := domain.SingleRune(rest)
	if !ok || !single {
		return 0, &SyntaxError{Line: l.num, Msg: "expected `INITIAL STATE: ...`"}
	}
	return domain.State(r), nil
}

func parseBlankSymbol(l line) (domain.Symbol, error) {
	rest, ok := strings.CutPrefix(l.text, blankSymbolPrefix)
	if ok {
		rest, ok = strings.CutSuffix(rest, "]")
	}
	r, single := domain.SingleRune(rest)
	if !ok || !single {
		return 0, &SyntaxError{Line: l.num, Msg: "expected `BLANK SYMBOL: [...]`"}
	}
	return domain.Symbol(r), nil
}

// transitionChars checks the `SY: ACT` shape of a transition line.
func transitionChars(l line) ([]rune, error) {
	chars := []rune(l.text)
	if len(chars) != transitionWidth || chars[2] != ':' || chars[3] != ' ' {
		return nil, &SyntaxError{Line: l.num, Msg: "malformed transition"}
	}
	return chars, nil
}

func parseAction(l line, action []rune) (domain.Transition, error) {
	switch string(action) {
	case "ACC":
		return domain.Halt{Kind: domain.Accept}, nil
	case "REJ":
		return domain.Halt{Kind: domain.Reject}, nil
	}

	movement, ok := movementFromRune(action[1])
	if !ok {
		return nil, &SyntaxError{Line: l.num, Msg: fmt.Sprintf("invalid movement direction '%c'", action[1])}
	}

	return domain.Move{
		Write:    domain.Symbol(action[0]),
		Next:     domain.State(action[2]),
		Movement: movement,
	}, nil
}

func movementFromRune(r rune) (domain.Movement, bool) {
	switch r {
	case '<':
		return domain.Left, true
	case '>':
		return domain.Right, true
	case '=':
		return domain.Stay, true
	}
	return 0, false
}
