package bookmarkcache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"bookferry/internal/karakeep"
	"bookferry/internal/logging"
)

// Fetcher is the subset of the Karakeep client used to populate the
// cache.
type Fetcher interface {
	ListBookmarks(ctx context.Context, opts karakeep.ListBookmarksOptions) (*karakeep.BookmarkPage, error)
	CurrentUserStats(ctx context.Context) (*karakeep.UserStats, error)
}

// PopulateOptions controls a cache refresh.
type PopulateOptions struct {
	// ShowProgress renders a terminal progress bar during the fetch.
	ShowProgress bool
	// IncludeContent fetches full bookmark content. Needed for
	// highlight import, optional for archive syncing.
	IncludeContent bool
}

// Populate clears the cache and refetches every bookmark from the API.
// The final count is checked against the server's statistics; a mismatch
// is logged but not fatal since bookmarks may change mid-fetch.
func (s *Store) Populate(ctx context.Context, client Fetcher, logger *slog.Logger, opts PopulateOptions) (int, error) {
	log := logging.NewComponentLogger(logger, "cache")

	stats, err := client.CurrentUserStats(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch user stats: %w", err)
	}

	if err := s.Clear(ctx); err != nil {
		return 0, err
	}

	var bar *progressbar.ProgressBar
	if opts.ShowProgress {
		bar = progressbar.Default(int64(stats.NumBookmarks), "fetching bookmarks")
	}

	total := 0
	cursor := ""
	for {
		page, err := client.ListBookmarks(ctx, karakeep.ListBookmarksOptions{
			Cursor:         cursor,
			IncludeContent: opts.IncludeContent,
		})
		if err != nil {
			return total, fmt.Errorf("fetch bookmark page: %w", err)
		}
		if err := s.Upsert(ctx, page.Bookmarks); err != nil {
			return total, err
		}
		total += len(page.Bookmarks)
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

	if total != stats.NumBookmarks {
		log.Warn("cached bookmark count differs from server statistics",
			logging.Args(
				logging.Int("cached", total),
				logging.Int("server", stats.NumBookmarks),
			)...)
	} else {
		log.Info("cache populated", logging.Args(logging.Int(logging.FieldCount, total))...)
	}
	return total, nil
}
