package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookferry/internal/bookmarkmatch"
)

func newDupesCommand(ctx *commandContext) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "dupes",
		Short: "Find bookmarks that look like duplicates by title",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if threshold == 0 {
				threshold = cfg.Matcher.DuplicateThreshold
			}
			candidates, err := ctx.loadCandidates(cmd.Context())
			if err != nil {
				return err
			}
			pairs, err := bookmarkmatch.Duplicates(candidates, threshold)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(pairs) == 0 {
				fmt.Fprintln(out, "No likely duplicates found")
				return nil
			}
			rows := make([][]string, 0, len(pairs))
			for _, pair := range pairs {
				rows = append(rows, []string{
					fmt.Sprintf("%.3f", pair.Similarity),
					pair.A.ID,
					candidateTitle(pair.A),
					pair.B.ID,
					candidateTitle(pair.B),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Similarity", "ID", "Title", "ID", "Title"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Similarity threshold in (0, 1] (defaults to config)")
	return cmd
}

func candidateTitle(c bookmarkmatch.Candidate) string {
	if c.Content.Title != "" {
		return c.Content.Title
	}
	return c.RecordTitle
}
