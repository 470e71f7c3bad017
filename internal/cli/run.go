package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ErrRejected is returned by RunSession when the machine rejects and
// RunOptions.ExitCode is set.
var ErrRejected = errors.New("machine rejected the input")

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	// Tape is the initial tape notation. When TapeSet is false it is read from Stdin.
	Tape    string
	TapeSet bool

	MaxSteps uint64
	Delay    time.Duration
	Animate  bool
	JSON     bool
	ExitCode bool

	Stdin  io.Reader
	Stdout io.Writer
	Logger *slog.Logger
	Hooks  domain.LifecycleHooks
}

// RunSession executes schematic once and prints the verdict.
func RunSession(ctx context.Context, schematic *domain.Schematic, opts RunOptions) (runner.Result, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	notation := opts.Tape
	if !opts.TapeSet {
		var err error
		if notation, err = ReadTape(opts.Stdin); err != nil {
			return runner.Result{}, err
		}
	}

	hooks := opts.Hooks
	if opts.Logger.Enabled(ctx, slog.LevelDebug) {
		hooks = observability.Chain(hooks, createDebugHooks(opts.Logger))
	}

	m, err := turing.NewFromNotation(schematic, notation,
		turing.WithLogger(opts.Logger),
		turing.WithLifecycleHooks(hooks),
	)
	if err != nil {
		return runner.Result{}, err
	}

	runnerOpts := []runner.Option{
		runner.WithMaxSteps(opts.MaxSteps),
		runner.WithDelay(opts.Delay),
		runner.WithLogger(opts.Logger),
	}

	var anim *animator
	if opts.Animate && !opts.JSON {
		anim = newAnimator(opts.Stdout)
		if anim == nil {
			opts.Logger.Warn("Animation disabled: stdout is not a terminal")
		} else {
			runnerOpts = append(runnerOpts, runner.WithObserver(anim.draw))
		}
	}

	res, runErr := runner.Run(ctx, m, runnerOpts...)

	if anim != nil {
		anim.finish()
	}

	if IsInterrupted(runErr) {
		printSystemMessage(opts.Stdout, "Interrupted at '%s' state after %d steps.", res.State, res.Steps)
		return res, nil
	}

	if err := printResult(opts.Stdout, res, runErr, opts.JSON); err != nil {
		return res, err
	}
	if runErr != nil {
		return res, runErr
	}
	if opts.ExitCode && !res.Accepted() {
		return res, ErrRejected
	}
	return res, nil
}

type jsonResult struct {
	runner.Result
	Error string `json:"error,omitempty"`
}

func printResult(w io.Writer, res runner.Result, runErr error, jsonMode bool) error {
	if jsonMode {
		out := jsonResult{Result: res}
		if runErr != nil {
			out.Error = runErr.Error()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	_, err := fmt.Fprintln(w, res.String())
	return err
}

// animator redraws the tape strip in place on a terminal.
type animator struct {
	out   *termenv.Output
	width int
	drawn int
}

// newAnimator returns nil when w is not a terminal.
func newAnimator(w io.Writer) *animator {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		width = tui.DefaultWidth
	}
	out := termenv.NewOutput(f)
	out.HideCursor()
	return &animator{out: out, width: width}
}

func (a *animator) draw(f runner.Frame) {
	frame := tui.RenderTape(f.Tape, a.width, a.out.Profile) + "\n" +
		tui.RenderStatus(f.Step, f.State, f.Tape.Head(), a.out.Profile)

	if a.drawn > 0 {
		a.out.CursorPrevLine(a.drawn)
	}
	lines := strings.Split(frame, "\n")
	for _, line := range lines {
		a.out.ClearLine()
		fmt.Fprintln(a.out, line)
	}
	a.drawn = len(lines)
}

func (a *animator) finish() {
	a.out.ShowCursor()
}
