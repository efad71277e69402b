package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"bookferry/internal/bookmarkcache"
	"bookferry/internal/karakeep"
	"bookferry/internal/logging"
)

func TestParseCutoff(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "2024-01-15", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{input: "2024-01-15T10:30:00Z", want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{input: "january", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseCutoff(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseCutoff(%q) succeeded, want error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCutoff(%q): %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseCutoff(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "(unset)"},
		{"abc", "****"},
		{"ak_1234567890", "ak_1**********"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.input); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()
	want := []string{
		"sync-archived", "import-highlights", "archive-before",
		"tags", "lists", "cache", "dupes", "locate", "config", "notify",
	}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"A", "B"},
		[][]string{{"1", "2"}, {"3"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(out, "A") || !strings.Contains(out, "3") {
		t.Errorf("renderTable output missing cells:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Error("renderTable with no headers should be empty")
	}
}

type recordingNotifier struct {
	cachePopulated []int
}

func (n *recordingNotifier) NotifyMigrationCompleted(context.Context, string, int, int, time.Duration) error {
	return nil
}

func (n *recordingNotifier) NotifyMigrationFailed(context.Context, string, error) error { return nil }

func (n *recordingNotifier) NotifyCachePopulated(_ context.Context, count int) error {
	n.cachePopulated = append(n.cachePopulated, count)
	return nil
}

func (n *recordingNotifier) TestNotification(context.Context) error { return nil }

type staticFetcher struct {
	bookmarks []karakeep.Bookmark
}

func (f staticFetcher) ListBookmarks(context.Context, karakeep.ListBookmarksOptions) (*karakeep.BookmarkPage, error) {
	return &karakeep.BookmarkPage{Bookmarks: f.bookmarks}, nil
}

func (f staticFetcher) CurrentUserStats(context.Context) (*karakeep.UserStats, error) {
	return &karakeep.UserStats{NumBookmarks: len(f.bookmarks)}, nil
}

func TestPopulateCacheNotifies(t *testing.T) {
	store, err := bookmarkcache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	notifier := &recordingNotifier{}
	cmdCtx := newCommandContext(nil)
	cmdCtx.loggerOnce.Do(func() { cmdCtx.logger = logging.NewNop() })
	cmdCtx.notifier = notifier

	fetcher := staticFetcher{bookmarks: []karakeep.Bookmark{{ID: "b1"}, {ID: "b2"}}}
	count, err := cmdCtx.populateCache(context.Background(), store, fetcher, bookmarkcache.PopulateOptions{})
	if err != nil {
		t.Fatalf("populateCache: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if len(notifier.cachePopulated) != 1 || notifier.cachePopulated[0] != 2 {
		t.Errorf("cache notifications = %v, want [2]", notifier.cachePopulated)
	}
}
