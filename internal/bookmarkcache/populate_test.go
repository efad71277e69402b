package bookmarkcache

import (
	"context"
	"testing"

	"bookferry/internal/karakeep"
)

type fakeFetcher struct {
	pages []karakeep.BookmarkPage
	stats karakeep.UserStats
	calls int
}

func (f *fakeFetcher) ListBookmarks(_ context.Context, opts karakeep.ListBookmarksOptions) (*karakeep.BookmarkPage, error) {
	idx := f.calls
	f.calls++
	if idx >= len(f.pages) {
		return &karakeep.BookmarkPage{}, nil
	}
	page := f.pages[idx]
	return &page, nil
}

func (f *fakeFetcher) CurrentUserStats(context.Context) (*karakeep.UserStats, error) {
	stats := f.stats
	return &stats, nil
}

func TestPopulateFollowsCursors(t *testing.T) {
	store := openTestStore(t)
	cursor := "page-2"
	fetcher := &fakeFetcher{
		stats: karakeep.UserStats{NumBookmarks: 3},
		pages: []karakeep.BookmarkPage{
			{Bookmarks: sampleBookmarks()[:2], NextCursor: &cursor},
			{Bookmarks: sampleBookmarks()[2:], NextCursor: nil},
		},
	}

	total, err := store.Populate(context.Background(), fetcher, nil, PopulateOptions{})
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if fetcher.calls != 2 {
		t.Errorf("page fetches = %d, want 2", fetcher.calls)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("cached count = %d", count)
	}
}

func TestPopulateReplacesStaleCache(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	stale := sampleBookmarks()
	stale[0].ID = "gone-after-refresh"
	if err := store.Upsert(ctx, stale); err != nil {
		t.Fatal(err)
	}

	fetcher := &fakeFetcher{
		stats: karakeep.UserStats{NumBookmarks: 1},
		pages: []karakeep.BookmarkPage{{Bookmarks: sampleBookmarks()[:1]}},
	}
	if _, err := store.Populate(ctx, fetcher, nil, PopulateOptions{}); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	bookmarks, err := store.Bookmarks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(bookmarks) != 1 || bookmarks[0].ID != "bm-1" {
		t.Errorf("cache should hold only refreshed bookmarks, got %+v", bookmarks)
	}
}
