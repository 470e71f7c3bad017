package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/turing/internal/cli"
	turinghttp "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the program library as a JSON API over HTTP.
Runs are capped by http.max_steps from the config file or --max-steps,
traces additionally by http.trace_max_steps.
Prometheus metrics are exposed on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := app.logger
		addr := app.cfg.HTTP.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		maxSteps := app.cfg.HTTP.MaxSteps
		if cmd.Flags().Changed("max-steps") {
			maxSteps, _ = cmd.Flags().GetUint64("max-steps")
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		reg, closeStore, err := openRegistry(sigCtx)
		if err != nil {
			return err
		}
		defer closeStore()

		preload, _ := cmd.Flags().GetStringSlice("preload")
		for _, path := range preload {
			name, err := reg.Import(sigCtx, path)
			if err != nil {
				return err
			}
			logger.Info("Program preloaded", "name", name, "path", path)
		}

		metrics := prometheus.NewRegistry()
		metrics.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		srv, err := turinghttp.NewServer(reg,
			turinghttp.WithMaxSteps(maxSteps),
			turinghttp.WithTraceMaxSteps(app.cfg.HTTP.TraceMaxSteps),
			turinghttp.WithLogger(logger),
			turinghttp.WithMetrics(metrics),
		)
		if err != nil {
			return err
		}

		httpServer := &http.Server{
			Addr:              addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting Turing Server", "address", addr, "store", app.cfg.Store, "max_steps", maxSteps)
			serverErrors <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			logger.Info("Start shutdown", "signal", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := httpServer.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("Turing Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default: http.addr, :8080)")
	serveCmd.Flags().Uint64("max-steps", 0, "Cap on the steps of every run (0: unbounded)")
	serveCmd.Flags().StringSlice("preload", nil, "Program files to store before serving")
}
