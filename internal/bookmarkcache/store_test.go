package bookmarkcache

import (
	"context"
	"testing"

	"bookferry/internal/bookmarkmatch"
	"bookferry/internal/karakeep"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleBookmarks() []karakeep.Bookmark {
	return []karakeep.Bookmark{
		{
			ID:        "bm-1",
			Title:     "First Article",
			Archived:  false,
			CreatedAt: "2024-01-01T00:00:00.000Z",
			Content:   karakeep.Content{Type: karakeep.ContentTypeLink, URL: "https://example.com/one", Title: "First Article"},
		},
		{
			ID:        "bm-2",
			Archived:  true,
			CreatedAt: "2024-02-01T00:00:00.000Z",
			Content:   karakeep.Content{Type: karakeep.ContentTypeText, Text: "a saved note", SourceURL: "https://example.com/two"},
		},
		{
			ID:        "bm-3",
			Title:     "A PDF",
			CreatedAt: "2024-03-01T00:00:00.000Z",
			Content:   karakeep.Content{Type: karakeep.ContentTypeAsset, AssetType: "pdf", AssetID: "asset-9", SourceURL: "https://example.com/three.pdf"},
		},
	}
}

func TestUpsertAndBookmarksRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, sampleBookmarks()); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	bookmarks, err := store.Bookmarks(ctx)
	if err != nil {
		t.Fatalf("Bookmarks: %v", err)
	}
	if len(bookmarks) != 3 {
		t.Fatalf("len = %d, want 3", len(bookmarks))
	}
	if bookmarks[0].ID != "bm-1" || bookmarks[0].Content.URL != "https://example.com/one" {
		t.Errorf("bookmarks[0] = %+v", bookmarks[0])
	}
	if bookmarks[1].Content.Type != karakeep.ContentTypeText || bookmarks[1].Content.Text != "a saved note" {
		t.Errorf("text content lost in round trip: %+v", bookmarks[1].Content)
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, sampleBookmarks()); err != nil {
		t.Fatal(err)
	}
	updated := sampleBookmarks()[0]
	updated.Archived = true
	updated.Title = "Renamed"
	if err := store.Upsert(ctx, []karakeep.Bookmark{updated}); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("count = %d, upsert must not duplicate", count)
	}

	bookmarks, err := store.Bookmarks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !bookmarks[0].Archived || bookmarks[0].Title != "Renamed" {
		t.Errorf("bookmarks[0] = %+v, want replaced fields", bookmarks[0])
	}
}

func TestCandidatesMapping(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.Upsert(ctx, sampleBookmarks()); err != nil {
		t.Fatal(err)
	}

	candidates, err := store.Candidates(ctx)
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("len = %d", len(candidates))
	}

	link := candidates[0]
	if link.Content.Kind != bookmarkmatch.ContentLink || link.Content.URL != "https://example.com/one" {
		t.Errorf("link candidate = %+v", link)
	}
	if link.RecordTitle != "First Article" {
		t.Errorf("RecordTitle = %q", link.RecordTitle)
	}

	text := candidates[1]
	if text.Content.Kind != bookmarkmatch.ContentText || text.Content.SourceURL != "https://example.com/two" {
		t.Errorf("text candidate = %+v", text)
	}
	if !text.Archived {
		t.Error("archived flag lost")
	}

	asset := candidates[2]
	if asset.Content.Kind != bookmarkmatch.ContentAsset {
		t.Errorf("asset candidate = %+v", asset)
	}
}

func TestStatsAndClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.Upsert(ctx, sampleBookmarks()); err != nil {
		t.Fatal(err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := Stats{Total: 3, Archived: 1, Links: 1, Texts: 1, Assets: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count after clear = %d", count)
	}
}

func TestOpenRequiresDirectory(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank directory")
	}
}
