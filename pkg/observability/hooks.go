package observability

import "github.com/aretw0/turing/pkg/domain"

// Chain combines multiple hooks into one. Callbacks run in the order given.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var onStep []func(*domain.StepEvent)
	var onHalt []func(*domain.HaltEvent)
	for _, h := range hooks {
		if h.OnStep != nil {
			onStep = append(onStep, h.OnStep)
		}
		if h.OnHalt != nil {
			onHalt = append(onHalt, h.OnHalt)
		}
	}

	var out domain.LifecycleHooks
	if len(onStep) > 0 {
		out.OnStep = func(e *domain.StepEvent) {
			for _, fn := range onStep {
				fn(e)
			}
		}
	}
	if len(onHalt) > 0 {
		out.OnHalt = func(e *domain.HaltEvent) {
			for _, fn := range onHalt {
				fn(e)
			}
		}
	}
	return out
}
