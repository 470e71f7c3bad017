package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTape_CentredOnHead(t *testing.T) {
	tp := tape.MustParse("ab|cd", '_')

	out := tui.RenderTape(tp, 11, termenv.Ascii)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	// 5 cells: positions -2..2
	assert.Equal(t, "│a│b│c│d│_│", lines[0])
	assert.Equal(t, "     ^", lines[1])
}

func TestRenderTape_ReadsBeyondMaterializedCells(t *testing.T) {
	tp := tape.New('_', []domain.Symbol{'x'}, nil)
	tp.Move(domain.Right)
	tp.Move(domain.Right)

	out := tui.RenderTape(tp, 11, termenv.Ascii)
	assert.Equal(t, "│x│_│_│_│_│\n     ^", out)
	lo, hi := tp.Bounds()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 2, hi, "rendering must not grow the tape")
}

func TestRenderTape_DefaultWidth(t *testing.T) {
	out := tui.RenderTape(tape.New('_', nil, nil), 0, termenv.Ascii)
	first := strings.Split(out, "\n")[0]
	assert.Equal(t, (tui.DefaultWidth-1)/2, strings.Count(first, "_"))
}

func TestRenderStatus(t *testing.T) {
	assert.Equal(t, "step 12  state R  head -3", tui.RenderStatus(12, 'R', -3, termenv.Ascii))
}

func TestFprintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.FprintBanner(&buf, termenv.Ascii, "0.1.0\n")
	assert.Contains(t, buf.String(), "v0.1.0")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestDescribeMarkdown(t *testing.T) {
	b := dsl.New('q', ' ')
	b.State('q').
		On(' ').Write('|').Right().Go('r').
		On('a').Accept()

	s := b.MustBuild()
	md := tui.DescribeMarkdown("pipe", s, validator.Validate(s))

	assert.Contains(t, md, "# pipe")
	assert.Contains(t, md, "- **Blank symbol:** `␣`")
	assert.Contains(t, md, "| `q` | `␣` | `\\|` | right | `r` |")
	assert.Contains(t, md, "| `q` | `a` | | | **ACCEPT** |")
	assert.Contains(t, md, "## Warnings")
	assert.Contains(t, md, "state 'r' is reachable but has no transitions")
}

func TestDescribeMarkdown_Empty(t *testing.T) {
	md := tui.DescribeMarkdown("empty", domain.NewSchematic('q', '_', nil), nil)
	assert.Contains(t, md, "_No transitions")
	assert.NotContains(t, md, "## Warnings")
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer(60)
	require.NoError(t, err)
	out, err := render("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "body")
}
