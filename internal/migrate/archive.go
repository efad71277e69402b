package migrate

import (
	"context"
	"time"

	"github.com/schollz/progressbar/v3"

	"bookferry/internal/bookmarkmatch"
	"bookferry/internal/logging"
)

// SyncArchived archives every bookmark whose matching export record is
// archived. Candidates usually come from the local cache; archive state
// is re-checked against the live API before each write so a stale cache
// only costs an extra read.
func (r *Runner) SyncArchived(ctx context.Context, records []bookmarkmatch.SourceRecord, candidates []bookmarkmatch.Candidate) (*Report, error) {
	release, err := r.acquireLock()
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now()
	report := r.newReport("sync-archived")

	var archived []bookmarkmatch.SourceRecord
	for _, record := range records {
		if record.State == bookmarkmatch.StateArchived {
			archived = append(archived, record)
		}
	}
	r.logger.Info("syncing archived records",
		logging.Args(
			logging.Int(logging.FieldCount, len(archived)),
			logging.Int("total_records", len(records)),
		)...)

	decisions := parallelMatch(r.matcher, archived, candidates, r.opts.Workers)

	var bar *progressbar.ProgressBar
	if r.opts.ShowProgress {
		bar = progressbar.Default(int64(len(archived)), "archiving")
	}
	for i, record := range archived {
		if bar != nil {
			_ = bar.Add(1)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		decision := decisions[i]
		if !decision.Matched() {
			report.fail("no match for %q (%s)", record.Title, record.URL)
			r.logUnmatched(record)
			continue
		}
		candidate := decision.Candidate
		report.countMatch(decision.Confidence.String())
		r.logger.Debug("record matched",
			logging.Args(
				logging.String(logging.FieldBookmark, candidate.ID),
				logging.String(logging.FieldStrategy, decision.Confidence.String()),
				logging.String("title", record.Title),
			)...)

		if candidate.Archived {
			report.Skipped++
			continue
		}
		fresh, err := r.client.GetBookmark(ctx, candidate.ID)
		if err != nil {
			report.fail("fetch bookmark %s: %v", candidate.ID, err)
			continue
		}
		if fresh.Archived {
			report.Skipped++
			continue
		}
		if report.DryRun {
			report.Processed++
			continue
		}
		if err := r.archiveWithRetry(ctx, candidate.ID); err != nil {
			report.fail("%v", err)
			r.logUnmatched(record)
			continue
		}
		report.Processed++
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return r.finish(ctx, report, started), nil
}

// ArchiveBefore archives every active bookmark created before cutoff.
func (r *Runner) ArchiveBefore(ctx context.Context, cutoff time.Time) (*Report, error) {
	release, err := r.acquireLock()
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now()
	report := r.newReport("archive-before")

	bookmarks, err := r.fetchAllBookmarks(ctx, false)
	if err != nil {
		_ = r.notifier.NotifyMigrationFailed(ctx, report.Operation, err)
		return nil, err
	}

	for _, bookmark := range bookmarks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if bookmark.Archived {
			report.Skipped++
			continue
		}
		created, err := bookmark.CreatedTime()
		if err != nil {
			report.fail("bookmark %s: %v", bookmark.ID, err)
			continue
		}
		if !created.Before(cutoff) {
			report.Skipped++
			continue
		}
		if report.DryRun {
			r.logger.Info("would archive",
				logging.Args(
					logging.String(logging.FieldBookmark, bookmark.ID),
					logging.String("created_at", bookmark.CreatedAt),
					logging.String("title", bookmark.DisplayTitle()),
				)...)
			report.Processed++
			continue
		}
		if err := r.archiveWithRetry(ctx, bookmark.ID); err != nil {
			report.fail("%v", err)
			continue
		}
		report.Processed++
	}
	return r.finish(ctx, report, started), nil
}
