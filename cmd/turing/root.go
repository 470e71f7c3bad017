package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/spf13/cobra"
)

// app holds what PersistentPreRunE prepared for the running command.
var app struct {
	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error
}

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing runs deterministic single-tape Turing machines",
	Long: `Turing parses machine descriptions, runs them on a tape and reports
whether they halt in an ACCEPT or REJECT state. Programs can be kept in a
library (directory, memory or Redis) and served over HTTP or MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("library") {
			cfg.Library, _ = cmd.Flags().GetString("library")
		}
		if cmd.Flags().Changed("store") {
			cfg.Store, _ = cmd.Flags().GetString("store")
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile, _ = cmd.Flags().GetString("log-file")
		}
		debug, _ := cmd.Flags().GetBool("debug")

		logger, closeLog, err := cli.NewLogger(cli.LogOptions{
			Debug: debug,
			Level: cfg.LogLevel,
			File:  cfg.LogFile,
		})
		if err != nil {
			return err
		}

		app.cfg = cfg
		app.logger = logger
		app.closeLog = closeLog
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app.closeLog != nil {
			return app.closeLog()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// A rejected run under --exit-code exits with status 2.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, cli.ErrRejected) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./"+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every step to stderr")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")
	rootCmd.PersistentFlags().String("library", "", "Directory of the file program library")
	rootCmd.PersistentFlags().String("store", "", "Program library backend: file, memory or redis")
}

// openRegistry builds a registry over the configured program library.
func openRegistry(ctx context.Context) (*registry.Registry, func() error, error) {
	store, closeStore, err := cli.OpenStore(ctx, app.cfg, app.logger)
	if err != nil {
		return nil, nil, err
	}
	return registry.New(store), closeStore, nil
}

// loadProgram resolves ref as a program file when it exists on disk and as a
// library name otherwise.
func loadProgram(ctx context.Context, ref string) (*domain.Schematic, string, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		s, err := turing.Load(ref)
		return s, ref, err
	}

	reg, closeStore, err := openRegistry(ctx)
	if err != nil {
		return nil, "", err
	}
	defer closeStore()

	s, err := reg.Get(ctx, ref)
	if errors.Is(err, domain.ErrProgramNotFound) || errors.Is(err, domain.ErrInvalidProgramName) {
		return nil, "", fmt.Errorf("%q is neither a program file nor a stored program: %w", ref, err)
	}
	return s, ref, err
}

func versionString() string {
	return strings.TrimSpace(turing.Version)
}
