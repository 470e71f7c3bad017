package domain

// StepEvent describes one executed, non-halting step.
type StepEvent struct {
	Step     uint64   `json:"step"`
	From     State    `json:"from"`
	Read     Symbol   `json:"read"`
	Write    Symbol   `json:"write"`
	Movement Movement `json:"movement"`
	To       State    `json:"to"`
	Head     int      `json:"head"` // head position after the movement
}

// HaltEvent describes the step that halted the machine.
type HaltEvent struct {
	Step     uint64   `json:"step"`
	State    State    `json:"state"`
	Read     Symbol   `json:"read"`
	Kind     HaltKind `json:"kind"`
	Implicit bool     `json:"implicit"` // no transition was defined for (State, Read)
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously inside Step and must not call back into the machine.
type LifecycleHooks struct {
	OnStep func(*StepEvent)
	OnHalt func(*HaltEvent)
}
