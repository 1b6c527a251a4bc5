package main

import (
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/trace"
	"github.com/spf13/cobra"
)

var runOpts cli.RunOptions

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a machine until it halts",
	Long: `Loads a machine definition (YAML or JSON), runs it on its initial tape and
prints one line per transition followed by the final tape. The head cell is
shown in brackets. A machine that never halts runs until interrupted unless
--budget is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()

		opts := runOpts
		opts.Logger = logger
		if opts.SaveAs != "" {
			b, closeBackend, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer closeBackend()
			opts.Store = b.Store
		}

		err := cli.RunFile(signals.Context(), cmd.OutOrStdout(), args[0], opts)
		if signals.Interrupted() {
			logger.Info("run interrupted")
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runOpts.Budget, "budget", "b", 0, "Stop after this many steps (0 = no limit)")
	runCmd.Flags().BoolVarP(&runOpts.Quiet, "quiet", "q", false, "Only print the final tape")
	runCmd.Flags().StringVar(&runOpts.Color, "color", trace.ColorAuto, "Colour the trace (auto, always, never)")
	runCmd.Flags().StringVar(&runOpts.SaveAs, "save", "", "Save the final configuration as this session ID")
}
