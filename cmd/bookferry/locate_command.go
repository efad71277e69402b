package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bookferry/internal/textlocate"
)

func newLocateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate <query> <file>",
		Short: "Find the closest approximate match for a phrase in a text file",
		Long:  "Find the closest approximate match for a phrase in a text file. Pass - to read the corpus from stdin.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var corpus []byte
			if args[1] == "-" {
				corpus, err = io.ReadAll(cmd.InOrStdin())
			} else {
				corpus, err = os.ReadFile(args[1])
			}
			if err != nil {
				return fmt.Errorf("read corpus: %w", err)
			}

			result, err := textlocate.Locate(args[0], string(corpus), textlocate.Options{
				CaseSensitive: cfg.Locator.CaseSensitive,
				StepFactor:    cfg.Locator.StepFactor,
				Workers:       cfg.Locator.Workers,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(result.Matches) == 0 {
				fmt.Fprintln(out, "No match found")
				return nil
			}
			fmt.Fprintf(out, "Strategy: %s  Ratio: %.3f  Distance: %.3f\n", result.Strategy, result.Ratio, result.Distance)
			for _, match := range result.Matches {
				fmt.Fprintf(out, "  %q\n", match)
			}
			return nil
		},
	}
	return cmd
}
