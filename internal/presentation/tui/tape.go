package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 80

// cellWidth is the rendered width of one tape cell, e.g. "│x".
const cellWidth = 2

// TapeView is what RenderTape needs from a tape.
type TapeView interface {
	At(pos int) domain.Symbol
	Head() int
	Blank() domain.Symbol
}

// RenderTape draws a window of cells centred on the head.
// The head cell is highlighted; the line below points at it.
func RenderTape(view TapeView, width int, p termenv.Profile) string {
	if width <= 0 {
		width = DefaultWidth
	}
	cells := (width - 1) / cellWidth
	if cells < 1 {
		cells = 1
	}

	head := view.Head()
	lo := head - cells/2
	hi := lo + cells - 1

	var top, marker strings.Builder
	for pos := lo; pos <= hi; pos++ {
		sym := cellText(view.At(pos))
		top.WriteString("│")
		if pos == head {
			top.WriteString(p.String(sym).Reverse().Bold().String())
			marker.WriteString(" ^")
			continue
		}
		if view.At(pos) == view.Blank() {
			top.WriteString(p.String(sym).Faint().String())
		} else {
			top.WriteString(sym)
		}
		marker.WriteString("  ")
	}
	top.WriteString("│")

	return top.String() + "\n" + strings.TrimRight(marker.String(), " ")
}

// RenderStatus is the line printed under the tape while animating.
func RenderStatus(step uint64, state domain.State, head int, p termenv.Profile) string {
	return fmt.Sprintf("step %s  state %s  head %d",
		p.String(fmt.Sprint(step)).Bold(),
		p.String(state.String()).Foreground(p.Color("#c084fc")),
		head,
	)
}

func cellText(s domain.Symbol) string {
	if s == ' ' {
		return "·"
	}
	return s.String()
}
