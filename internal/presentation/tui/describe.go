package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
)

// DescribeMarkdown summarizes a program as markdown: header facts, the
// transition table grouped by state and any validation warnings.
func DescribeMarkdown(name string, s *domain.Schematic, report *validator.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", name)
	fmt.Fprintf(&sb, "- **Initial state:** `%s`\n", s.InitialState())
	fmt.Fprintf(&sb, "- **Blank symbol:** `%s`\n", markdownSymbol(s.BlankSymbol()))
	fmt.Fprintf(&sb, "- **States:** %d\n", len(s.Table().States()))
	fmt.Fprintf(&sb, "- **Transitions:** %d\n\n", s.Table().Len())

	sb.WriteString("## Transitions\n\n")
	if s.Table().Len() == 0 {
		sb.WriteString("_No transitions: every run rejects on the first step._\n")
	} else {
		sb.WriteString("| State | Read | Write | Move | Next |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, e := range s.Table().Entries() {
			switch t := e.Transition.(type) {
			case domain.Move:
				fmt.Fprintf(&sb, "| `%s` | `%s` | `%s` | %s | `%s` |\n",
					e.Key.State, markdownSymbol(e.Key.Symbol), markdownSymbol(t.Write), t.Movement.Name(), t.Next)
			case domain.Halt:
				fmt.Fprintf(&sb, "| `%s` | `%s` | | | **%s** |\n",
					e.Key.State, markdownSymbol(e.Key.Symbol), t.Kind)
			}
		}
	}

	if report != nil && !report.OK() {
		sb.WriteString("\n## Warnings\n\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w.Message)
		}
	}

	return sb.String()
}

func markdownSymbol(s domain.Symbol) string {
	switch s {
	case ' ':
		return "␣"
	case '`':
		return "ˋ"
	case '|':
		return `\|`
	}
	return s.String()
}
