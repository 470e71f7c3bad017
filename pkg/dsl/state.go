package dsl

import "github.com/aretw0/turing/pkg/domain"

// StateBuilder collects the rules of one state.
type StateBuilder struct {
	state   domain.State
	rules   []*RuleBuilder
	builder *Builder
}

// On starts a rule for reading symbol in this state.
func (s *StateBuilder) On(symbol domain.Symbol) *RuleBuilder {
	r := &RuleBuilder{
		read:     symbol,
		write:    symbol,
		movement: domain.Stay,
		parent:   s,
	}
	s.rules = append(s.rules, r)
	return r
}

// State switches to another state of the same program.
func (s *StateBuilder) State(other domain.State) *StateBuilder {
	return s.builder.State(other)
}

// RuleBuilder provides a fluent API for configuring a single transition.
type RuleBuilder struct {
	read       domain.Symbol
	write      domain.Symbol
	movement   domain.Movement
	transition domain.Transition
	parent     *StateBuilder
}

// Write sets the symbol written before moving. Defaults to the symbol read.
func (r *RuleBuilder) Write(symbol domain.Symbol) *RuleBuilder {
	r.write = symbol
	return r
}

// Left moves the head one cell left after writing.
func (r *RuleBuilder) Left() *RuleBuilder {
	r.movement = domain.Left
	return r
}

// Right moves the head one cell right after writing.
func (r *RuleBuilder) Right() *RuleBuilder {
	r.movement = domain.Right
	return r
}

// Stay keeps the head in place. This is the default.
func (r *RuleBuilder) Stay() *RuleBuilder {
	r.movement = domain.Stay
	return r
}

// Go completes the rule with the next state.
func (r *RuleBuilder) Go(next domain.State) *StateBuilder {
	r.transition = domain.Move{Write: r.write, Next: next, Movement: r.movement}
	return r.parent
}

// Accept completes the rule with an Accept halt.
func (r *RuleBuilder) Accept() *StateBuilder {
	r.transition = domain.Halt{Kind: domain.Accept}
	return r.parent
}

// Reject completes the rule with an explicit Reject halt.
func (r *RuleBuilder) Reject() *StateBuilder {
	r.transition = domain.Halt{Kind: domain.Reject}
	return r.parent
}
