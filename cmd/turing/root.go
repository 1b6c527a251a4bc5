package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/logging"
	"github.com/spf13/cobra"
)

var (
	globalOpts cli.Options
	logger     = logging.NewNop()
	closeLog   = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing is a single-tape Turing machine interpreter",
	Long: `Turing runs machines described in YAML or JSON files, printing a trace of
every transition, and keeps long computations as resumable sessions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, closer, err := cli.NewLogger(globalOpts, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger, closeLog = l, closer
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalOpts.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&globalOpts.LogFile, "log-file", "", "Also write JSON logs to this file")
	flags.StringVar(&globalOpts.Store, "store", cli.StoreFile, "Session store (file, memory, redis)")
	flags.StringVar(&globalOpts.StoreDir, "store-dir", "", "Directory of the file store (default .turing/sessions)")
	flags.StringVar(&globalOpts.RedisAddr, "redis-addr", "localhost:6379", "Address of the redis store")
	flags.StringVar(&globalOpts.EncryptionKey, "encryption-key", os.Getenv("TURING_ENCRYPTION_KEY"),
		"Hex AES-256 key to seal stored sessions, optionally followed by comma-separated fallback keys")
}

// openBackend opens the configured store. The returned func closes it.
func openBackend(cmd *cobra.Command) (*cli.Backend, func(), error) {
	b, err := cli.OpenBackend(cmd.Context(), globalOpts)
	if err != nil {
		return nil, nil, err
	}
	return b, func() {
		if err := b.Close(); err != nil {
			logger.Warn("failed to close store", "err", err)
		}
	}, nil
}
