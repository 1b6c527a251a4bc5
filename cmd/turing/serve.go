package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/tui"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves one-shot runs and persistent sessions as a JSON API, with Prometheus
metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		maxBudget, _ := cmd.Flags().GetInt("max-budget")
		if maxBudget < 1 {
			return fmt.Errorf("--max-budget must be positive, got %d", maxBudget)
		}

		b, closeBackend, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer closeBackend()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		sessionOpts := []session.Option{
			session.WithLogger(logger),
			session.WithMachineOptions(turing.WithLifecycleHooks(observability.Hooks[string, string](metrics))),
		}
		if b.Locker != nil {
			sessionOpts = append(sessionOpts, session.WithLocker(b.Locker))
		}
		mgr := session.NewManager(b.Store, sessionOpts...)

		srv := &http.Server{
			Addr: ":" + port,
			Handler: httpAdapter.NewHandler(mgr,
				httpAdapter.WithMetrics(metrics),
				httpAdapter.WithLogger(logger),
				httpAdapter.WithMaxBudget(maxBudget),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		tui.PrintBanner(cmd.OutOrStdout())
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting Turing Server on %s (store: %s)\n", srv.Addr, globalOpts.Store)
			serverErrors <- srv.ListenAndServe()
		}()

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-signals.Context().Done():
			fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Turing Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Int("max-budget", httpAdapter.DefaultMaxBudget, "Maximum steps a single request may apply")
}
