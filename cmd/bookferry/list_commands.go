package main

import (
	"github.com/spf13/cobra"
)

func newListsCommand(ctx *commandContext) *cobra.Command {
	listsCmd := &cobra.Command{
		Use:   "lists",
		Short: "List operations",
	}

	listsCmd.AddCommand(newTagListCommand(ctx))
	return listsCmd
}

func newTagListCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "tag <list-name> <tag-name>",
		Short: "Attach a tag to every bookmark in a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.newRunner(dryRun, "")
			if err != nil {
				return err
			}
			report, err := runner.TagList(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing them")
	return cmd
}
