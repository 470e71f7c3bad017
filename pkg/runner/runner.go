package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
)

// ErrStepLimit is returned when a machine is still running after MaxSteps steps.
var ErrStepLimit = errors.New("step limit exceeded")

// cancelCheckInterval is how often an undelayed loop polls its context.
const cancelCheckInterval = 1024

// Frame is a snapshot passed to the Observer. Tape is only valid during the call.
type Frame struct {
	Step   uint64
	State  domain.State
	Tape   turing.TapeView
	Halted bool
}

// Observer receives frames while a machine runs.
type Observer func(Frame)

// Result summarizes a run. It is filled in even when Run returns an error.
type Result struct {
	Verdict domain.HaltKind `json:"verdict"`
	Halted  bool            `json:"halted"`
	Steps   uint64          `json:"steps"`
	State   domain.State    `json:"state"`
	Tape    string          `json:"tape"`
	Elapsed time.Duration   `json:"elapsed_ns"`
}

// Accepted reports whether the machine halted in an Accept state.
func (r Result) Accepted() bool {
	return r.Halted && r.Verdict == domain.Accept
}

// String renders the verdict the way the CLI prints it.
func (r Result) String() string {
	if !r.Halted {
		return fmt.Sprintf("Turing machine still running after %d steps", r.Steps)
	}
	return fmt.Sprintf("Turing machine halted in a(n) %s state", r.Verdict)
}

// Runner steps a machine until it halts.
type Runner struct {
	// MaxSteps bounds the run. Zero means unbounded.
	MaxSteps uint64

	// Delay is slept between steps.
	Delay time.Duration

	// Observer, if set, is called before the first step and after every step.
	Observer Observer

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// New creates a Runner. Without options it runs unbounded and silently.
func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run steps m until it halts, the step bound is hit or ctx is done.
// The steps count from where m was when Run was called.
func (r *Runner) Run(ctx context.Context, m *turing.Machine) (Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	start := time.Now()
	base := m.Steps()
	r.observe(m)

	var timer *time.Timer
	if r.Delay > 0 {
		timer = time.NewTimer(r.Delay)
		defer timer.Stop()
	}

	var err error
	for !m.Halted() {
		if r.MaxSteps > 0 && m.Steps()-base >= r.MaxSteps {
			err = fmt.Errorf("%w: %d", ErrStepLimit, r.MaxSteps)
			break
		}

		if timer != nil {
			select {
			case <-ctx.Done():
				err = ctx.Err()
			case <-timer.C:
				timer.Reset(r.Delay)
			}
		} else if (m.Steps()-base)%cancelCheckInterval == 0 {
			err = ctx.Err()
		}
		if err != nil {
			break
		}

		m.Step()
		r.observe(m)
	}

	res := resultOf(m, base, time.Since(start))
	if err != nil {
		logger.Warn("run stopped before halting", "steps", res.Steps, "err", err)
		return res, err
	}

	logger.Debug("run finished", "verdict", res.Verdict.String(), "steps", res.Steps, "elapsed", res.Elapsed)
	return res, nil
}

// Run is a convenience for New(opts...).Run(ctx, m).
func Run(ctx context.Context, m *turing.Machine, opts ...Option) (Result, error) {
	return New(opts...).Run(ctx, m)
}

func (r *Runner) observe(m *turing.Machine) {
	if r.Observer == nil {
		return
	}
	r.Observer(Frame{
		Step:   m.Steps(),
		State:  m.State(),
		Tape:   m.Tape(),
		Halted: m.Halted(),
	})
}

func resultOf(m *turing.Machine, base uint64, elapsed time.Duration) Result {
	kind, halted := m.HaltKind()
	return Result{
		Verdict: kind,
		Halted:  halted,
		Steps:   m.Steps() - base,
		State:   m.State(),
		Tape:    m.Tape().String(),
		Elapsed: elapsed,
	}
}
