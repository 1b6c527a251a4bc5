package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/aretw0/turing/pkg/session"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long: `Create, step, list, inspect and remove machine sessions kept in the
configured store (.turing/sessions by default).`,
}

func newManager(cmd *cobra.Command) (*session.Manager, func(), error) {
	b, closeBackend, err := openBackend(cmd)
	if err != nil {
		return nil, nil, err
	}
	opts := []session.Option{session.WithLogger(logger)}
	if b.Locker != nil {
		opts = append(opts, session.WithLocker(b.Locker))
	}
	return session.NewManager(b.Store, opts...), closeBackend, nil
}

var sessionNewCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "Start a session from a machine definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := schema.LoadFile(args[0])
		if err != nil {
			return err
		}
		mgr, closeBackend, err := newManager(cmd)
		if err != nil {
			return err
		}
		defer closeBackend()

		id, _ := cmd.Flags().GetString("id")
		var snap *domain.Snapshot
		if id != "" {
			snap, err = mgr.CreateWithID(cmd.Context(), id, def)
		} else {
			snap, err = mgr.Create(cmd.Context(), def)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), snap.SessionID)
		return nil
	},
}

var sessionStepCmd = &cobra.Command{
	Use:   "step <session-id>",
	Short: "Advance a session by at most n steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("count")
		return advanceSession(cmd, args[0], func(ctx context.Context, mgr *session.Manager) (*session.Result, error) {
			return mgr.Step(ctx, args[0], n)
		})
	},
}

var sessionRunCmd = &cobra.Command{
	Use:   "run <session-id>",
	Short: "Run a session until it halts",
	Long: `Resumes the session and runs it until a final state, an interrupt or the
step budget. Progress is saved in every case.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		budget, _ := cmd.Flags().GetInt("budget")
		return advanceSession(cmd, args[0], func(ctx context.Context, mgr *session.Manager) (*session.Result, error) {
			return mgr.Run(ctx, args[0], budget)
		})
	},
}

func advanceSession(cmd *cobra.Command, sessionID string, advance func(context.Context, *session.Manager) (*session.Result, error)) error {
	mgr, closeBackend, err := newManager(cmd)
	if err != nil {
		return err
	}
	defer closeBackend()

	signals := runner.NewSignalManager(cmd.Context())
	defer signals.Stop()

	res, err := advance(signals.Context(), mgr)
	if res != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d steps\n", res.Applied)
		if pErr := cli.PrintSnapshot(cmd.OutOrStdout(), res.Snapshot, false); pErr != nil {
			return pErr
		}
	}
	if err != nil {
		return fmt.Errorf("session '%s': %w", sessionID, err)
	}
	return nil
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, closeBackend, err := newManager(cmd)
		if err != nil {
			return err
		}
		defer closeBackend()
		sessions, err := mgr.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		fmt.Fprintln(out, "Sessions:")
		for _, s := range sessions {
			fmt.Fprintln(out, "- "+s)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the configuration of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		mgr, closeBackend, err := newManager(cmd)
		if err != nil {
			return err
		}
		defer closeBackend()
		snap, err := mgr.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", args[0], err)
		}
		return cli.PrintSnapshot(cmd.OutOrStdout(), snap, asJSON)
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, closeBackend, err := newManager(cmd)
		if err != nil {
			return err
		}
		defer closeBackend()

		var errs []error
		for _, sessionID := range args {
			if err := mgr.Delete(cmd.Context(), sessionID); err != nil {
				errs = append(errs, fmt.Errorf("error removing '%s': %w", sessionID, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", sessionID)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionNewCmd, sessionStepCmd, sessionRunCmd, sessionLsCmd, sessionInspectCmd, sessionRmCmd)

	sessionNewCmd.Flags().String("id", "", "Session ID (default: random UUID)")
	sessionStepCmd.Flags().IntP("count", "n", 1, "Maximum number of steps to apply")
	sessionRunCmd.Flags().IntP("budget", "b", 0, "Stop after this many steps (0 = no limit)")
	sessionInspectCmd.Flags().Bool("json", false, "Print the raw snapshot as JSON")
}
