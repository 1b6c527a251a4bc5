package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/aretw0/turing/pkg/trace"
	"golang.org/x/term"
)

// RunOptions configures RunFile.
type RunOptions struct {
	Budget int
	Quiet  bool
	Color  string
	SaveAs string // session ID to persist the final configuration under
	Store  ports.SnapshotStore
	Logger *slog.Logger
}

// ResolveColor turns "auto" into "always" or "never" depending on whether out
// is a terminal. Other modes are returned unchanged.
func ResolveColor(mode string, out io.Writer) string {
	if mode != "" && mode != trace.ColorAuto {
		return mode
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return trace.ColorAlways
	}
	return trace.ColorNever
}

// RunFile loads the definition at path and runs it, printing one trace line
// per transition (unless quiet) and then the final tape.
func RunFile(ctx context.Context, out io.Writer, path string, opts RunOptions) error {
	def, err := schema.LoadFile(path)
	if err != nil {
		return err
	}
	prog, err := schema.Compile(def)
	if err != nil {
		return err
	}

	machineOpts := []turing.Option{}
	if opts.Logger != nil {
		machineOpts = append(machineOpts, turing.WithLogger(opts.Logger))
	}
	if !opts.Quiet {
		machineOpts = append(machineOpts, turing.WithLifecycleHooks(
			trace.Text[string, string](out, trace.TextOptions{Color: ResolveColor(opts.Color, out)}),
		))
	}

	m, err := prog.New(machineOpts...)
	if err != nil {
		return err
	}

	res, runErr := runner.Run(ctx, m, runner.WithBudget(opts.Budget), runner.WithLogger(opts.Logger))

	fmt.Fprintln(out, trace.Tape(res.Tape, res.Head, nil))
	if !opts.Quiet {
		fmt.Fprintf(out, "state=%s steps=%d halted=%t\n", res.State, res.Steps, res.Halted)
	}

	if opts.SaveAs != "" && opts.Store != nil {
		snap := prog.Capture(opts.SaveAs, m)
		snap.UpdatedAt = time.Now()
		if err := opts.Store.Save(context.WithoutCancel(ctx), snap); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}

	return runErr
}

// ExitCode maps a run error to a process exit status.
func ExitCode(err error) int {
	var budget *domain.BudgetExceededError
	var missing *domain.MissingTransitionError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &budget):
		return 3
	case errors.As(err, &missing):
		return 4
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}
