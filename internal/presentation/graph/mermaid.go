package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Overlay contains run data to visualize on the graph.
// A zero Current means no state is highlighted.
type Overlay struct {
	Visited []domain.State
	Current domain.State
}

const (
	acceptID = "accept"
	rejectID = "reject"
)

// GenerateMermaid produces a Mermaid flowchart of a program.
// It applies semantic styling:
// - Initial state: ((Circle))
// - Accept: ([Stadium])
// - Reject: [/Parallelogram/]
// - Default: [Rectangle]
// Edges are labelled "read/write,move". States with implicit rejects get no extra edge.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(s *domain.Schematic, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	entries := s.Table().Entries()
	usesAccept, usesReject := false, false
	for _, e := range entries {
		if h, ok := e.Transition.(domain.Halt); ok {
			if h.Kind == domain.Accept {
				usesAccept = true
			} else {
				usesReject = true
			}
		}
	}

	states := s.Table().States()
	if !containsState(states, s.InitialState()) {
		states = append([]domain.State{s.InitialState()}, states...)
	}
	for _, st := range states {
		opener, closer := "[", "]"
		if st == s.InitialState() {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(st), opener, escape(st.String()), closer)
	}
	if usesAccept {
		fmt.Fprintf(&sb, "    %s([\"ACCEPT\"])\n", acceptID)
	}
	if usesReject {
		fmt.Fprintf(&sb, "    %s[/\"REJECT\"/]\n", rejectID)
	}

	for _, e := range entries {
		from := nodeID(e.Key.State)
		read := escape(printable(e.Key.Symbol))
		switch t := e.Transition.(type) {
		case domain.Move:
			label := fmt.Sprintf("%s/%s,%s", read, escape(printable(t.Write)), movementLetter(t.Movement))
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", from, label, nodeID(t.Next))
		case domain.Halt:
			to := acceptID
			if t.Kind == domain.Reject {
				to = rejectID
			}
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", from, read, to)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.State]bool)
		for _, st := range overlay.Visited {
			if !seen[st] {
				seen[st] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(st))
			}
		}
		if overlay.Current != 0 {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.Current))
		}
	}

	return sb.String()
}

// nodeID derives a Mermaid-safe identifier from any rune.
func nodeID(s domain.State) string {
	return fmt.Sprintf("s%x", rune(s))
}

// printable makes whitespace symbols visible.
func printable(s domain.Symbol) string {
	if s == ' ' {
		return "␣"
	}
	return s.String()
}

func escape(label string) string {
	r := strings.NewReplacer(`"`, "#quot;", "<", "#lt;", ">", "#gt;")
	return r.Replace(label)
}

func movementLetter(m domain.Movement) string {
	switch m {
	case domain.Left:
		return "L"
	case domain.Right:
		return "R"
	default:
		return "S"
	}
}

func containsState(states []domain.State, s domain.State) bool {
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}
