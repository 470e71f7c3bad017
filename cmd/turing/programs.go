package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/spf13/cobra"
)

var programsCmd = &cobra.Command{
	Use:     "programs",
	Aliases: []string{"lib"},
	Short:   "Manage the program library",
}

var programsListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored programs",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeStore, err := openRegistry(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		names, err := reg.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var programsCatCmd = &cobra.Command{
	Use:   "cat <name>",
	Short: "Print a stored program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeStore, err := openRegistry(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		var out []byte
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			schematic, err := reg.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out, err = compiler.FormatYAML(schematic); err != nil {
				return err
			}
		} else if out, err = reg.Source(cmd.Context(), args[0]); err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var programsPutCmd = &cobra.Command{
	Use:   "put <file>...",
	Short: "Store program files in the library",
	Long: `Validates and stores each file under its base name without extension.
--name stores a single file under another name.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeStore, err := openRegistry(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		if name, _ := cmd.Flags().GetString("name"); name != "" {
			if len(args) != 1 {
				return fmt.Errorf("--name takes exactly one file, got %d", len(args))
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read program: %w", err)
			}
			if _, err := reg.Put(cmd.Context(), name, data, compiler.EncodingFromPath(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", name)
			return nil
		}

		for _, path := range args {
			name, err := reg.Import(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", name)
		}
		return nil
	},
}

var programsRemoveCmd = &cobra.Command{
	Use:     "rm <name>...",
	Aliases: []string{"remove"},
	Short:   "Delete stored programs",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeStore, err := openRegistry(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		for _, name := range args {
			if err := reg.Delete(cmd.Context(), name); err != nil {
				return err
			}
			app.logger.Debug("Program deleted", "name", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(programsCmd)
	programsCmd.AddCommand(programsListCmd, programsCatCmd, programsPutCmd, programsRemoveCmd)

	programsCatCmd.Flags().Bool("yaml", false, "Print the YAML form")
	programsPutCmd.Flags().String("name", "", "Store the file under this name")
}
