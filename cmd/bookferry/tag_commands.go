package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookferry/internal/migrate"
)

func newTagsCommand(ctx *commandContext) *cobra.Command {
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "Tag maintenance operations",
	}

	tagsCmd.AddCommand(newPruneAITagsCommand(ctx))
	tagsCmd.AddCommand(newTimeToReadCommand(ctx))
	return tagsCmd
}

func newPruneAITagsCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "prune-ai",
		Short: "Delete tags attached only by the AI tagger",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !dryRun && !yes {
				ok, err := confirm(cmd, "Delete all AI-only tags? [y/N]: ")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}
			runner, err := ctx.newRunner(dryRun, "")
			if err != nil {
				return err
			}
			report, err := runner.PruneAITags(cmd.Context())
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing them")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func newTimeToReadCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var wpm int
	var resetAll bool

	cmd := &cobra.Command{
		Use:   "time-to-read",
		Short: "Tag bookmarks with their reading-time bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.newRunner(dryRun, "")
			if err != nil {
				return err
			}
			report, err := runner.TimeToRead(cmd.Context(), migrate.TimeToReadOptions{
				WPM:      wpm,
				ResetAll: resetAll,
			})
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing them")
	cmd.Flags().IntVar(&wpm, "wpm", migrate.DefaultWordsPerMinute, "Assumed reading speed in words per minute")
	cmd.Flags().BoolVar(&resetAll, "reset-all", false, "Reattach bucket tags even when already correct")
	return cmd
}
