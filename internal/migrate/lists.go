package migrate

import (
	"context"
	"fmt"
	"time"

	"bookferry/internal/logging"
)

// TagList attaches tagName to every bookmark in the named list. Already
// tagged bookmarks are skipped so the operation can be rerun safely.
func (r *Runner) TagList(ctx context.Context, listName, tagName string) (*Report, error) {
	release, err := r.acquireLock()
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now()
	report := r.newReport("tag-list")

	lists, err := r.client.ListLists(ctx)
	if err != nil {
		_ = r.notifier.NotifyMigrationFailed(ctx, report.Operation, err)
		return nil, err
	}
	listID := ""
	for _, list := range lists {
		if list.Name == listName {
			listID = list.ID
			break
		}
	}
	if listID == "" {
		return nil, fmt.Errorf("list %q not found", listName)
	}

	cursor := ""
	for {
		page, err := r.client.ListBookmarksInList(ctx, listID, cursor)
		if err != nil {
			_ = r.notifier.NotifyMigrationFailed(ctx, report.Operation, err)
			return nil, fmt.Errorf("fetch list page: %w", err)
		}
		for _, bookmark := range page.Bookmarks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if bookmark.HasTag(tagName) {
				report.Skipped++
				continue
			}
			if report.DryRun {
				report.Processed++
				continue
			}
			if err := r.client.AttachTags(ctx, bookmark.ID, []string{tagName}); err != nil {
				report.fail("attach %q to %s: %v", tagName, bookmark.ID, err)
				continue
			}
			r.logger.Debug("tagged bookmark",
				logging.Args(
					logging.String(logging.FieldBookmark, bookmark.ID),
					logging.String("tag", tagName),
				)...)
			report.Processed++
		}
		if page.NextCursor == nil || *page.NextCursor == "" {
			break
		}
		cursor = *page.NextCursor
	}
	return r.finish(ctx, report, started), nil
}
