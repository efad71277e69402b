package migrate

import (
	"context"
	"errors"
	"time"

	"github.com/schollz/progressbar/v3"

	"bookferry/internal/bookmarkmatch"
	"bookferry/internal/exports"
	"bookferry/internal/highlightpos"
	"bookferry/internal/karakeep"
	"bookferry/internal/logging"
	"bookferry/internal/render"
)

const (
	// DefaultHighlightColor is applied when the caller does not pick one.
	DefaultHighlightColor = "yellow"

	importNote = "Imported by bookferry v0.1.0"
)

// ImportHighlights recreates exported highlight quotes on their matching
// bookmarks. PDF captures are skipped: their stored content has no text
// rendering to anchor offsets in. An empty color uses
// DefaultHighlightColor.
func (r *Runner) ImportHighlights(ctx context.Context, export *exports.OmnivoreExport, candidates []bookmarkmatch.Candidate, color string) (*Report, error) {
	if color == "" {
		color = DefaultHighlightColor
	}
	release, err := r.acquireLock()
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now()
	report := r.newReport("import-highlights")

	files, err := export.Highlights()
	if err != nil {
		_ = r.notifier.NotifyMigrationFailed(ctx, report.Operation, err)
		return nil, err
	}
	r.logger.Info("importing highlights",
		logging.Args(logging.Int(logging.FieldCount, len(files)))...)

	var bar *progressbar.ProgressBar
	if r.opts.ShowProgress {
		bar = progressbar.Default(int64(len(files)), "importing highlights")
	}
	for _, file := range files {
		if bar != nil {
			_ = bar.Add(1)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.importArticleHighlights(ctx, export, file, candidates, color, report)
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return r.finish(ctx, report, started), nil
}

// importArticleHighlights handles one article's highlight file. Failures
// are recorded on the report and never abort the batch.
func (r *Runner) importArticleHighlights(ctx context.Context, export *exports.OmnivoreExport, file exports.HighlightFile, candidates []bookmarkmatch.Candidate, color string, report *Report) {
	logger := logging.NewComponentLogger(r.logger, "highlights")

	record, ok := export.RecordBySlug(file.Slug)
	if !ok {
		report.fail("no export record for slug %s", file.Slug)
		return
	}
	if kind, ok := export.ContentKind(file.Slug); ok && kind == exports.ContentPDF {
		logger.Debug("skipping pdf capture",
			logging.Args(logging.String(logging.FieldSlug, file.Slug))...)
		report.Skipped += len(file.Quotes)
		return
	}

	decision := r.matcher.Match(record, candidates)
	if !decision.Matched() {
		report.fail("no match for %q (%s)", record.Title, record.URL)
		r.logUnmatched(record)
		return
	}
	report.countMatch(decision.Confidence.String())

	bookmark, err := r.client.GetBookmark(ctx, decision.Candidate.ID)
	if err != nil {
		report.fail("fetch bookmark %s: %v", decision.Candidate.ID, err)
		return
	}
	if bookmark.Content.HTMLContent == "" {
		report.fail("bookmark %s has no stored content", bookmark.ID)
		return
	}
	doc, err := render.Document(bookmark.Content.HTMLContent)
	if err != nil {
		report.fail("render bookmark %s: %v", bookmark.ID, err)
		return
	}

	// Re-runs must not duplicate highlights that an earlier import
	// already created on this bookmark.
	existing, err := r.client.ListHighlights(ctx, bookmark.ID)
	if err != nil {
		report.fail("list highlights on %s: %v", bookmark.ID, err)
		return
	}
	imported := make(map[string]struct{}, len(existing))
	for _, h := range existing {
		imported[h.Text] = struct{}{}
	}

	for _, raw := range file.Quotes {
		quote, err := render.Quote(raw)
		if err != nil {
			report.fail("prepare quote in %s: %v", file.Slug, err)
			continue
		}
		// Link-only quotes carry no text and cannot be deduplicated.
		if _, ok := imported[quote.PlainText]; ok && quote.PlainText != "" {
			logger.Debug("highlight already imported",
				logging.Args(logging.String(logging.FieldBookmark, bookmark.ID))...)
			report.Skipped++
			continue
		}
		span, err := r.resolver.Resolve(quote, doc)
		if errors.Is(err, highlightpos.ErrUnresolvable) {
			report.fail("unresolvable quote in %s: %.60q", file.Slug, raw)
			continue
		}
		if err != nil {
			report.fail("resolve quote in %s: %v", file.Slug, err)
			continue
		}

		logger.Debug("quote resolved",
			logging.Args(
				logging.String(logging.FieldBookmark, bookmark.ID),
				logging.Int("start", span.Start),
				logging.Int("end", span.End),
			)...)
		if report.DryRun {
			report.Processed++
			continue
		}
		_, err = r.client.CreateHighlight(ctx, karakeep.HighlightRequest{
			BookmarkID:  bookmark.ID,
			StartOffset: span.Start,
			EndOffset:   span.End,
			Color:       color,
			Text:        quote.PlainText,
			Note:        importNote,
		})
		if err != nil {
			report.fail("create highlight on %s: %v", bookmark.ID, err)
			continue
		}
		report.Processed++
	}
}
