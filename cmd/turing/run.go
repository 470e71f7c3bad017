package main

import (
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <program>",
	Short: "Run a program on a tape",
	Long: `Runs a program file or a stored program until it halts.
The tape is taken from --tape or, when absent, from the first line of stdin.
Tapes are written LEFT|RIGHT; the head starts on the first cell of RIGHT.
Without '|' the whole string is RIGHT.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		schematic, _, err := loadProgram(sigCtx, args[0])
		if err != nil {
			return err
		}

		opts := cli.RunOptions{
			MaxSteps: app.cfg.MaxSteps,
			Delay:    app.cfg.Delay,
			Stdin:    cmd.InOrStdin(),
			Stdout:   cmd.OutOrStdout(),
			Logger:   app.logger,
		}
		opts.Tape, _ = cmd.Flags().GetString("tape")
		opts.TapeSet = cmd.Flags().Changed("tape")
		if cmd.Flags().Changed("max-steps") {
			opts.MaxSteps, _ = cmd.Flags().GetUint64("max-steps")
		}
		if cmd.Flags().Changed("delay") {
			opts.Delay, _ = cmd.Flags().GetDuration("delay")
		}
		opts.Animate, _ = cmd.Flags().GetBool("animate")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.ExitCode, _ = cmd.Flags().GetBool("exit-code")

		if opts.Animate && !opts.JSON {
			tui.PrintBanner(versionString())
		}

		_, err = cli.RunSession(sigCtx, schematic, opts)
		if sig := sigCtx.Signal(); sig != nil {
			app.logger.Info("Run stopped by signal", "signal", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("tape", "t", "", "Initial tape, e.g. 'xxx|_xx' (default: first line of stdin)")
	runCmd.Flags().Uint64("max-steps", 0, "Stop after this many steps (0: unbounded)")
	runCmd.Flags().Duration("delay", 0, "Pause between steps, e.g. 100ms")
	runCmd.Flags().BoolP("animate", "a", false, "Redraw the tape after every step")
	runCmd.Flags().Bool("json", false, "Print the result as JSON")
	runCmd.Flags().Bool("exit-code", false, "Exit with status 2 when the machine rejects")
}
