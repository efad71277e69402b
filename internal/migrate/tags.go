package migrate

import (
	"context"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"bookferry/internal/karakeep"
	"bookferry/internal/logging"
	"bookferry/internal/render"
)

// TimeTags are the reading-time buckets, shortest first. Stale buckets
// are detached before the current one is attached so a bookmark never
// carries two.
var TimeTags = []string{"0-5m", "5-10m", "10-15m", "15-30m", "30m+"}

// DefaultWordsPerMinute is the reading speed the buckets assume.
const DefaultWordsPerMinute = 200

// ReadingTimeTag returns the reading-time bucket for a word count. A
// wpm of 0 or less uses DefaultWordsPerMinute.
func ReadingTimeTag(words, wpm int) string {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	minutes := float64(words) / float64(wpm)
	switch {
	case minutes <= 5:
		return TimeTags[0]
	case minutes <= 10:
		return TimeTags[1]
	case minutes <= 15:
		return TimeTags[2]
	case minutes <= 30:
		return TimeTags[3]
	default:
		return TimeTags[4]
	}
}

// PruneAITags deletes every tag attached exclusively by the AI tagger.
// A tag with even one human attachment survives.
func (r *Runner) PruneAITags(ctx context.Context) (*Report, error) {
	release, err := r.acquireLock()
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now()
	report := r.newReport("prune-ai-tags")

	tags, err := r.client.ListTags(ctx)
	if err != nil {
		_ = r.notifier.NotifyMigrationFailed(ctx, report.Operation, err)
		return nil, err
	}

	for _, tag := range tags {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if tag.CountByOrigin.AI == 0 || tag.CountByOrigin.Human > 0 {
			report.Skipped++
			continue
		}
		if report.DryRun {
			r.logger.Info("would delete tag",
				logging.Args(
					logging.String("tag", tag.Name),
					logging.Int("ai_attachments", tag.CountByOrigin.AI),
				)...)
			report.Processed++
			continue
		}
		if err := r.client.DeleteTag(ctx, tag.ID); err != nil {
			report.fail("delete tag %q: %v", tag.Name, err)
			continue
		}
		r.logger.Info("deleted tag", logging.Args(logging.String("tag", tag.Name))...)
		report.Processed++
	}
	return r.finish(ctx, report, started), nil
}

// TimeToReadOptions tunes the reading-time tagging pass.
type TimeToReadOptions struct {
	// WPM is the assumed reading speed; 0 uses DefaultWordsPerMinute.
	WPM int
	// ResetAll reattaches the current bucket even when it is already
	// present, forcing a clean tag state.
	ResetAll bool
}

// TimeToRead tags every link and text bookmark with its reading-time
// bucket, derived from the stored content's word count.
func (r *Runner) TimeToRead(ctx context.Context, opts TimeToReadOptions) (*Report, error) {
	release, err := r.acquireLock()
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now()
	report := r.newReport("time-to-read")

	bookmarks, err := r.fetchAllBookmarks(ctx, true)
	if err != nil {
		_ = r.notifier.NotifyMigrationFailed(ctx, report.Operation, err)
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if r.opts.ShowProgress {
		bar = progressbar.Default(int64(len(bookmarks)), "tagging reading time")
	}
	for _, bookmark := range bookmarks {
		if bar != nil {
			_ = bar.Add(1)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		words, ok, err := bookmarkWordCount(bookmark)
		if err != nil {
			report.fail("count words in %s: %v", bookmark.ID, err)
			continue
		}
		if !ok {
			report.Skipped++
			continue
		}
		target := ReadingTimeTag(words, opts.WPM)

		stale := staleTimeTags(bookmark, target)
		if opts.ResetAll && bookmark.HasTag(target) {
			stale = append(stale, target)
		}
		if bookmark.HasTag(target) && len(stale) == 0 {
			report.Skipped++
			continue
		}
		r.logger.Debug("reading time computed",
			logging.Args(
				logging.String(logging.FieldBookmark, bookmark.ID),
				logging.Int("words", words),
				logging.String("tag", target),
			)...)
		if report.DryRun {
			report.Processed++
			continue
		}
		if len(stale) > 0 {
			if err := r.client.DetachTags(ctx, bookmark.ID, stale); err != nil {
				report.fail("detach stale time tags from %s: %v", bookmark.ID, err)
				continue
			}
		}
		if !bookmark.HasTag(target) || opts.ResetAll {
			if err := r.client.AttachTags(ctx, bookmark.ID, []string{target}); err != nil {
				report.fail("attach %q to %s: %v", target, bookmark.ID, err)
				continue
			}
		}
		report.Processed++
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return r.finish(ctx, report, started), nil
}

// bookmarkWordCount counts the words in a bookmark's stored content.
// Asset bookmarks have no countable text and report ok=false.
func bookmarkWordCount(bookmark karakeep.Bookmark) (int, bool, error) {
	switch bookmark.Content.Type {
	case karakeep.ContentTypeLink:
		if bookmark.Content.HTMLContent == "" {
			return 0, false, nil
		}
		text, err := render.PlainText(bookmark.Content.HTMLContent)
		if err != nil {
			return 0, false, err
		}
		return len(strings.Fields(text)), true, nil
	case karakeep.ContentTypeText:
		if bookmark.Content.Text == "" {
			return 0, false, nil
		}
		return len(strings.Fields(bookmark.Content.Text)), true, nil
	default:
		return 0, false, nil
	}
}

// staleTimeTags returns the reading-time tags on the bookmark other than
// target.
func staleTimeTags(bookmark karakeep.Bookmark, target string) []string {
	var stale []string
	for _, tag := range TimeTags {
		if tag != target && bookmark.HasTag(tag) {
			stale = append(stale, tag)
		}
	}
	return stale
}
