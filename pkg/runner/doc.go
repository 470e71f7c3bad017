/*
Package runner drives a turing.Machine until it halts.

The machine itself only knows how to perform a single step. The Runner adds the
loop around it: an optional step bound for programs that may never halt, pacing
for animated frontends, cancellation through a context and an observer invoked
with a Frame before the first step and after every step.

# Usage

	r := runner.New(
		runner.WithMaxSteps(1_000_000),
		runner.WithObserver(func(f runner.Frame) {
			fmt.Println(f.Step, f.State, f.Tape.String())
		}),
	)

	res, err := r.Run(ctx, m)
	if errors.Is(err, runner.ErrStepLimit) {
		log.Printf("gave up after %d steps", res.Steps)
	}
*/
package runner
