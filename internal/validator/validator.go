package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Kind classifies a warning.
type Kind string

const (
	// KindUnreachable marks a state with rules that no run can enter.
	KindUnreachable Kind = "unreachable"
	// KindDeadEnd marks a reachable state without rules; every step in it rejects.
	KindDeadEnd Kind = "dead_end"
	// KindNoAccept means no reachable rule accepts, so every run rejects or loops.
	KindNoAccept Kind = "no_accept"
	// KindCommentState marks rules for state '#', which the text form reads as comments.
	KindCommentState Kind = "comment_state"
)

// Warning is a single finding. Warnings never prevent a program from running.
type Warning struct {
	Kind    Kind         `json:"kind"`
	State   domain.State `json:"state"`
	Message string       `json:"message"`
}

// Report is the result of Validate.
type Report struct {
	Reachable []domain.State `json:"reachable"`
	Warnings  []Warning      `json:"warnings"`
}

// OK reports whether there are no warnings.
func (r *Report) OK() bool {
	return len(r.Warnings) == 0
}

// String lists the warnings, one per line.
func (r *Report) String() string {
	if r.OK() {
		return "no issues found"
	}
	lines := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		lines = append(lines, w.Message)
	}
	return fmt.Sprintf("found %d warnings:\n- %s", len(r.Warnings), strings.Join(lines, "\n- "))
}

// Validate walks the transition graph from the initial state.
func Validate(s *domain.Schematic) *Report {
	table := s.Table()

	outgoing := make(map[domain.State][]domain.Transition)
	for _, e := range table.Entries() {
		outgoing[e.Key.State] = append(outgoing[e.Key.State], e.Transition)
	}

	// BFS over Move targets
	visited := map[domain.State]bool{s.InitialState(): true}
	queue := []domain.State{s.InitialState()}
	accepts := false

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, t := range outgoing[current] {
			switch t := t.(type) {
			case domain.Move:
				if !visited[t.Next] {
					visited[t.Next] = true
					queue = append(queue, t.Next)
				}
			case domain.Halt:
				if t.Kind == domain.Accept {
					accepts = true
				}
			}
		}
	}

	report := &Report{Reachable: sortedStates(visited)}

	for _, st := range report.Reachable {
		if len(outgoing[st]) == 0 {
			report.Warnings = append(report.Warnings, Warning{
				Kind:    KindDeadEnd,
				State:   st,
				Message: fmt.Sprintf("state '%s' is reachable but has no transitions; entering it always rejects", st),
			})
		}
	}

	for _, st := range table.States() {
		if !visited[st] {
			report.Warnings = append(report.Warnings, Warning{
				Kind:    KindUnreachable,
				State:   st,
				Message: fmt.Sprintf("state '%s' is unreachable from initial state '%s'", st, s.InitialState()),
			})
		}
	}

	if !accepts {
		report.Warnings = append(report.Warnings, Warning{
			Kind:    KindNoAccept,
			State:   s.InitialState(),
			Message: "no reachable transition accepts",
		})
	}

	if _, ok := outgoing['#']; ok {
		report.Warnings = append(report.Warnings, Warning{
			Kind:    KindCommentState,
			State:   '#',
			Message: "rules for state '#' cannot be written in the .turing text form; use YAML",
		})
	}

	return report
}

func sortedStates(set map[domain.State]bool) []domain.State {
	out := make([]domain.State, 0, len(set))
	for st := range set {
		out = append(out, st)
	}
	slices.Sort(out)
	return out
}
