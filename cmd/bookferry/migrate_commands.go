package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bookferry/internal/bookmarkmatch"
	"bookferry/internal/exports"
	"bookferry/internal/migrate"
)

func newSyncArchivedCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var omnivoreDir string
	var pocketCSV string
	var failureLog string

	cmd := &cobra.Command{
		Use:   "sync-archived",
		Short: "Archive bookmarks whose export record is archived",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecords(ctx, omnivoreDir, pocketCSV)
			if err != nil {
				return err
			}
			candidates, err := ctx.loadCandidates(cmd.Context())
			if err != nil {
				return err
			}
			runner, err := ctx.newRunner(dryRun, failureLog)
			if err != nil {
				return err
			}
			report, err := runner.SyncArchived(cmd.Context(), records, candidates)
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing them")
	cmd.Flags().StringVar(&omnivoreDir, "omnivore-dir", "", "Omnivore export directory (defaults to config)")
	cmd.Flags().StringVar(&pocketCSV, "pocket-csv", "", "Pocket CSV export file (defaults to config)")
	cmd.Flags().StringVar(&failureLog, "failure-log", "", "File to append unmatched records to")
	return cmd
}

// loadRecords picks the export source: an explicit Pocket CSV wins, then
// an explicit Omnivore directory, then whatever the config names.
func loadRecords(ctx *commandContext, omnivoreDir, pocketCSV string) ([]bookmarkmatch.SourceRecord, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if pocketCSV == "" && omnivoreDir == "" {
		omnivoreDir = cfg.Exports.OmnivoreDir
		pocketCSV = cfg.Exports.PocketCSV
	}
	switch {
	case pocketCSV != "" && omnivoreDir != "":
		return nil, fmt.Errorf("both an Omnivore directory and a Pocket CSV are configured; pass --omnivore-dir or --pocket-csv to pick one")
	case pocketCSV != "":
		return exports.LoadPocket(pocketCSV)
	case omnivoreDir != "":
		export, err := exports.LoadOmnivore(omnivoreDir)
		if err != nil {
			return nil, err
		}
		return export.Records, nil
	default:
		return nil, fmt.Errorf("no export source: set exports.omnivore_dir or exports.pocket_csv in the config, or pass --omnivore-dir / --pocket-csv")
	}
}

func newImportHighlightsCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var omnivoreDir string
	var color string

	cmd := &cobra.Command{
		Use:   "import-highlights",
		Short: "Recreate exported highlights on matching bookmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := omnivoreDir
			if dir == "" {
				dir = cfg.Exports.OmnivoreDir
			}
			if dir == "" {
				return fmt.Errorf("no Omnivore export: set exports.omnivore_dir in the config or pass --omnivore-dir")
			}
			export, err := exports.LoadOmnivore(dir)
			if err != nil {
				return err
			}
			candidates, err := ctx.loadCandidates(cmd.Context())
			if err != nil {
				return err
			}
			runner, err := ctx.newRunner(dryRun, "")
			if err != nil {
				return err
			}
			report, err := runner.ImportHighlights(cmd.Context(), export, candidates, color)
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing them")
	cmd.Flags().StringVar(&omnivoreDir, "omnivore-dir", "", "Omnivore export directory (defaults to config)")
	cmd.Flags().StringVar(&color, "color", migrate.DefaultHighlightColor, "Highlight color to apply")
	return cmd
}

func newArchiveBeforeCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "archive-before <date>",
		Short: "Archive every active bookmark created before a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cutoff, err := parseCutoff(args[0])
			if err != nil {
				return err
			}
			runner, err := ctx.newRunner(dryRun, "")
			if err != nil {
				return err
			}
			report, err := runner.ArchiveBefore(cmd.Context(), cutoff)
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

func parseCutoff(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: use YYYY-MM-DD or RFC 3339", value)
}
