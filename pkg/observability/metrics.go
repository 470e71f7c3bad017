package observability

import (
	"context"
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the engine.
type Metrics struct {
	steps       prometheus.Counter
	halts       *prometheus.CounterVec
	stopped     *prometheus.CounterVec
	runDuration prometheus.Histogram
	tapeCells   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turing_steps_total",
			Help: "Total number of executed non-halting steps",
		}),
		halts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_halts_total",
				Help: "Total number of halted machines by verdict",
			},
			[]string{"verdict", "implicit"},
		),
		stopped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_runs_stopped_total",
				Help: "Runs that ended before the machine halted",
			},
			[]string{"reason"},
		),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "turing_run_duration_seconds",
			Help:    "Wall time of driven runs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		tapeCells: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "turing_tape_cells",
			Help:    "Materialized tape cells at the end of a run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}

	for _, c := range []prometheus.Collector{m.steps, m.halts, m.stopped, m.runDuration, m.tapeCells} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record steps and halts.
// A nil Metrics returns empty hooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	if m == nil {
		return domain.LifecycleHooks{}
	}
	return domain.LifecycleHooks{
		OnStep: func(*domain.StepEvent) {
			m.steps.Inc()
		},
		OnHalt: func(e *domain.HaltEvent) {
			m.halts.WithLabelValues(e.Kind.String(), strconv.FormatBool(e.Implicit)).Inc()
		},
	}
}

// ObserveRun records the outcome of runner.Run. A nil Metrics ignores it.
func (m *Metrics) ObserveRun(res runner.Result, err error) {
	if m == nil {
		return
	}
	m.runDuration.Observe(res.Elapsed.Seconds())
	m.tapeCells.Observe(float64(tapeCells(res.Tape)))

	if err == nil {
		return
	}
	m.stopped.WithLabelValues(stopReason(err)).Inc()
}

func stopReason(err error) string {
	switch {
	case errors.Is(err, runner.ErrStepLimit):
		return "step_limit"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "deadline"
	default:
		return "error"
	}
}

func tapeCells(notation string) int {
	n := utf8.RuneCountInString(notation)
	for _, r := range notation {
		if r == tape.Separator {
			return n - 1
		}
	}
	return n
}
