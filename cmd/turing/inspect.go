package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/internal/validator"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var validateCmd = &cobra.Command{
	Use:   "validate <program>",
	Short: "Check a program for structural issues",
	Long: `Parses the program and reports states unreachable from the initial state,
reachable states without outgoing transitions, and programs that can never accept.
Warnings do not prevent a program from running; --strict turns them into a failure.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schematic, _, err := loadProgram(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		report := validator.Validate(schematic)
		fmt.Fprintln(cmd.OutOrStdout(), report.String())

		if strict, _ := cmd.Flags().GetBool("strict"); strict && !report.OK() {
			return fmt.Errorf("%d warnings", len(report.Warnings))
		}
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe <program>",
	Short: "Render a program as a formatted table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schematic, ref, err := loadProgram(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
		markdown := tui.DescribeMarkdown(name, schematic, validator.Validate(schematic))

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Fprint(cmd.OutOrStdout(), markdown)
			return nil
		}

		width := 0
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
		render, err := tui.NewRenderer(width)
		if err != nil {
			return err
		}
		out, err := render(markdown)
		if err != nil {
			return fmt.Errorf("failed to render description: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <program>",
	Short: "Export the state diagram",
	Long:  `Outputs a Mermaid flowchart (graph LR) with one edge per transition.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schematic, _, err := loadProgram(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(schematic, nil))
		return nil
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <program>",
	Short: "Print a program in canonical form",
	Long: `Prints the program with transitions sorted by state and symbol.
--yaml converts it to the YAML form; --write replaces the file instead of printing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schematic, ref, err := loadProgram(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := compiler.Format(schematic)
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			if out, err = compiler.FormatYAML(schematic); err != nil {
				return err
			}
		}

		if write, _ := cmd.Flags().GetBool("write"); write {
			if _, err := os.Stat(ref); err != nil {
				return fmt.Errorf("--write needs a program file: %w", err)
			}
			return os.WriteFile(ref, out, 0o644)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(validateCmd, describeCmd, graphCmd, fmtCmd)

	validateCmd.Flags().Bool("strict", false, "Fail when any warning is reported")
	describeCmd.Flags().Bool("raw", false, "Print the markdown without rendering it")
	fmtCmd.Flags().Bool("yaml", false, "Output the YAML form")
	fmtCmd.Flags().BoolP("write", "w", false, "Rewrite the program file in place")
}
