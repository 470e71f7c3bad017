package runner

import (
	"log/slog"
	"time"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithMaxSteps bounds the number of steps. Zero means unbounded.
func WithMaxSteps(n uint64) Option {
	return func(r *Runner) {
		r.MaxSteps = n
	}
}

// WithDelay pauses between steps. Used by animated frontends.
func WithDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.Delay = d
	}
}

// WithObserver registers a callback invoked before the first step and after every step.
func WithObserver(fn Observer) Option {
	return func(r *Runner) {
		r.Observer = fn
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}
