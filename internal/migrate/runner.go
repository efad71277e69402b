package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"bookferry/internal/bookmarkmatch"
	"bookferry/internal/highlightpos"
	"bookferry/internal/karakeep"
	"bookferry/internal/logging"
	"bookferry/internal/notifications"
	"bookferry/internal/parallel"
	"bookferry/internal/textlocate"
)

const (
	updateRetries    = 3
	updateRetryDelay = time.Second
)

// Client is the subset of the Karakeep API used by migrations.
type Client interface {
	ListBookmarks(ctx context.Context, opts karakeep.ListBookmarksOptions) (*karakeep.BookmarkPage, error)
	GetBookmark(ctx context.Context, id string) (*karakeep.Bookmark, error)
	UpdateBookmark(ctx context.Context, id string, patch karakeep.BookmarkPatch) (*karakeep.Bookmark, error)
	CreateHighlight(ctx context.Context, req karakeep.HighlightRequest) (*karakeep.Highlight, error)
	ListHighlights(ctx context.Context, bookmarkID string) ([]karakeep.Highlight, error)
	ListTags(ctx context.Context) ([]karakeep.Tag, error)
	DeleteTag(ctx context.Context, id string) error
	AttachTags(ctx context.Context, bookmarkID string, names []string) error
	DetachTags(ctx context.Context, bookmarkID string, names []string) error
	ListLists(ctx context.Context) ([]karakeep.List, error)
	ListBookmarksInList(ctx context.Context, listID, cursor string) (*karakeep.BookmarkPage, error)
	CurrentUserStats(ctx context.Context) (*karakeep.UserStats, error)
}

// Options configures a migration Runner.
type Options struct {
	// DryRun reports what would change without writing to the API.
	DryRun bool
	// Workers bounds the matching phase; zero means one per CPU.
	Workers int
	// Locator tunes approximate highlight positioning.
	Locator textlocate.Options
	// FailureLog, when set, appends unmatched source records as lines
	// for later inspection.
	FailureLog string
	// LockPath, when set, is an exclusive file lock held for the
	// duration of each operation.
	LockPath string
	// ShowProgress renders terminal progress bars.
	ShowProgress bool
}

// Runner executes migration operations.
type Runner struct {
	client   Client
	matcher  *bookmarkmatch.Matcher
	resolver *highlightpos.Resolver
	notifier notifications.Service
	logger   *slog.Logger
	opts     Options
	sleep    func(time.Duration)
}

// NewRunner creates a Runner. A nil notifier disables notifications and
// a nil logger discards logs.
func NewRunner(client Client, matcher *bookmarkmatch.Matcher, notifier notifications.Service, logger *slog.Logger, opts Options) *Runner {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if opts.Locator.StepFactor == 0 {
		opts.Locator = textlocate.DefaultOptions()
	}
	return &Runner{
		client:   client,
		matcher:  matcher,
		resolver: highlightpos.NewResolver(opts.Locator),
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "migrate"),
		opts:     opts,
		sleep:    time.Sleep,
	}
}

type noopNotifier struct{}

func (noopNotifier) NotifyMigrationCompleted(context.Context, string, int, int, time.Duration) error {
	return nil
}
func (noopNotifier) NotifyMigrationFailed(context.Context, string, error) error { return nil }
func (noopNotifier) NotifyCachePopulated(context.Context, int) error            { return nil }
func (noopNotifier) TestNotification(context.Context) error                     { return nil }

// Report summarizes one migration operation.
type Report struct {
	Operation string
	RunID     string
	DryRun    bool
	Processed int
	Skipped   int
	Failed    int
	// Matched counts match decisions by confidence tier for operations
	// that pair export records with bookmarks.
	Matched  map[string]int
	Duration time.Duration
	Errors   []string
}

func (r *Runner) newReport(operation string) *Report {
	return &Report{
		Operation: operation,
		RunID:     uuid.NewString(),
		DryRun:    r.opts.DryRun,
	}
}

func (report *Report) countMatch(tier string) {
	if report.Matched == nil {
		report.Matched = make(map[string]int)
	}
	report.Matched[tier]++
}

func (report *Report) fail(format string, args ...any) {
	report.Failed++
	report.Errors = append(report.Errors, fmt.Sprintf(format, args...))
}

// acquireLock takes the exclusive migration lock when configured. The
// returned release function is always safe to call.
func (r *Runner) acquireLock() (func(), error) {
	if r.opts.LockPath == "" {
		return func() {}, nil
	}
	lock := flock.New(r.opts.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return func() {}, fmt.Errorf("acquire migration lock: %w", err)
	}
	if !locked {
		return func() {}, fmt.Errorf("another migration holds the lock at %s", r.opts.LockPath)
	}
	return func() { _ = lock.Unlock() }, nil
}

// finish closes out a report and emits the completion notification.
func (r *Runner) finish(ctx context.Context, report *Report, started time.Time) *Report {
	report.Duration = time.Since(started)
	r.logger.Info("operation finished",
		logging.Args(
			logging.String("operation", report.Operation),
			logging.String(logging.FieldRunID, report.RunID),
			logging.Int("processed", report.Processed),
			logging.Int("skipped", report.Skipped),
			logging.Int("failed", report.Failed),
			logging.Duration("duration", report.Duration),
			logging.Bool("dry_run", report.DryRun),
		)...)
	if !report.DryRun {
		_ = r.notifier.NotifyMigrationCompleted(ctx, report.Operation, report.Processed, report.Failed, report.Duration)
	}
	return report
}

// archiveWithRetry archives a bookmark, retrying transient failures the
// way a manual operator would.
func (r *Runner) archiveWithRetry(ctx context.Context, bookmarkID string) error {
	archived := true
	var lastErr error
	for attempt := 1; attempt <= updateRetries; attempt++ {
		updated, err := r.client.UpdateBookmark(ctx, bookmarkID, karakeep.BookmarkPatch{Archived: &archived})
		if err == nil {
			if !updated.Archived {
				return fmt.Errorf("bookmark %s not archived after update", bookmarkID)
			}
			return nil
		}
		lastErr = err
		if attempt < updateRetries {
			r.sleep(updateRetryDelay)
		}
	}
	return fmt.Errorf("archive bookmark %s: %w", bookmarkID, lastErr)
}

// fetchAllBookmarks pages through the full collection.
func (r *Runner) fetchAllBookmarks(ctx context.Context, includeContent bool) ([]karakeep.Bookmark, error) {
	stats, err := r.client.CurrentUserStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch user stats: %w", err)
	}

	var bar *progressbar.ProgressBar
	if r.opts.ShowProgress {
		bar = progressbar.Default(int64(stats.NumBookmarks), "fetching bookmarks")
	}

	var all []karakeep.Bookmark
	cursor := ""
	for {
		page, err := r.client.ListBookmarks(ctx, karakeep.ListBookmarksOptions{
			Cursor:         cursor,
			IncludeContent: includeContent,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch bookmark page: %w", err)
		}
		all = append(all, page.Bookmarks...)
		if bar != nil {
			_ = bar.Add(len(page.Bookmarks))
		}
		if page.NextCursor == nil || *page.NextCursor == "" {
			break
		}
		cursor = *page.NextCursor
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return all, nil
}

// parallelMatch runs the matching phase across the worker pool. The
// candidate slice is shared read-only between workers.
func parallelMatch(matcher *bookmarkmatch.Matcher, records []bookmarkmatch.SourceRecord, candidates []bookmarkmatch.Candidate, workers int) []bookmarkmatch.Decision {
	return parallel.Map(workers, records, func(record bookmarkmatch.SourceRecord) bookmarkmatch.Decision {
		return matcher.Match(record, candidates)
	})
}

// logUnmatched appends an unmatched record to the failure log.
func (r *Runner) logUnmatched(record bookmarkmatch.SourceRecord) {
	if r.opts.FailureLog == "" {
		return
	}
	file, err := os.OpenFile(r.opts.FailureLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		r.logger.Warn("open failure log", logging.Args(logging.Error(err))...)
		return
	}
	defer file.Close()
	fmt.Fprintf(file, "%s\t%s\n", record.URL, record.Title)
}
