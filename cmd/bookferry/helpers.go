package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"bookferry/internal/migrate"
)

// maxReportErrors caps the per-item errors echoed after the summary
// table; the full list lands in the log output.
const maxReportErrors = 20

func printReport(cmd *cobra.Command, report *migrate.Report) {
	out := cmd.OutOrStdout()
	if report.DryRun {
		fmt.Fprintln(out, "Dry run: no changes were written")
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Operation", "Processed", "Skipped", "Failed", "Duration"},
		[][]string{{
			report.Operation,
			strconv.Itoa(report.Processed),
			strconv.Itoa(report.Skipped),
			strconv.Itoa(report.Failed),
			report.Duration.Round(time.Millisecond).String(),
		}},
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	))

	if len(report.Matched) > 0 {
		tiers := make([]string, 0, len(report.Matched))
		for tier := range report.Matched {
			tiers = append(tiers, tier)
		}
		sort.Strings(tiers)
		fmt.Fprint(out, "Matched:")
		for _, tier := range tiers {
			fmt.Fprintf(out, " %s=%d", tier, report.Matched[tier])
		}
		fmt.Fprintln(out)
	}

	if len(report.Errors) == 0 {
		return
	}
	fmt.Fprintf(out, "%d failures:\n", len(report.Errors))
	for i, msg := range report.Errors {
		if i == maxReportErrors {
			fmt.Fprintf(out, "  ... and %d more\n", len(report.Errors)-maxReportErrors)
			break
		}
		fmt.Fprintf(out, "  - %s\n", msg)
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
