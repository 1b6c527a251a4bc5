package main

import (
	"fmt"

	"github.com/aretw0/turing/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check machine definitions for consistency",
	Long: `Reports every problem in each definition at once: unknown states or symbols,
duplicate rules, missing movements and a blank outside the alphabet.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0

		for _, path := range args {
			def, err := schema.LoadFile(path)
			if err == nil {
				err = schema.Validate(def)
			}
			if err != nil {
				failed++
				fmt.Fprintf(out, "%s: invalid\n", path)
				if errs := schema.ValidationErrors(err); len(errs) > 0 {
					for _, e := range errs {
						fmt.Fprintf(out, "  - %v\n", e)
					}
				} else {
					fmt.Fprintf(out, "  - %v\n", err)
				}
				continue
			}
			fmt.Fprintf(out, "%s: ok (%d states, %d symbols, %d rules)\n", path, len(def.States), len(def.Symbols), len(def.Rules))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d definitions are invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
