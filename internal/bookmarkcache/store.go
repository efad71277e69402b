package bookmarkcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"bookferry/internal/bookmarkmatch"
	"bookferry/internal/karakeep"
)

// Store manages the bookmark cache backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schema = `
CREATE TABLE IF NOT EXISTS bookmarks (
    id           TEXT PRIMARY KEY,
    title        TEXT NOT NULL DEFAULT '',
    url          TEXT NOT NULL DEFAULT '',
    content_type TEXT NOT NULL DEFAULT '',
    archived     INTEGER NOT NULL DEFAULT 0,
    created_at   TEXT NOT NULL DEFAULT '',
    raw          BLOB NOT NULL,
    fetched_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bookmarks_url ON bookmarks(url);
`

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Open initializes or connects to the cache database under dir.
func Open(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("cache directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, "bookmarks.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.path
}

// Upsert stores or replaces the given bookmarks.
func (s *Store) Upsert(ctx context.Context, bookmarks []karakeep.Bookmark) error {
	ctx = ensureContext(ctx)
	now := time.Now().UTC().Format(time.RFC3339)
	for _, bookmark := range bookmarks {
		raw, err := json.Marshal(bookmark)
		if err != nil {
			return fmt.Errorf("encode bookmark %s: %w", bookmark.ID, err)
		}
		archived := 0
		if bookmark.Archived {
			archived = 1
		}
		err = s.execWithRetry(ctx, `
INSERT INTO bookmarks (id, title, url, content_type, archived, created_at, raw, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    title = excluded.title,
    url = excluded.url,
    content_type = excluded.content_type,
    archived = excluded.archived,
    created_at = excluded.created_at,
    raw = excluded.raw,
    fetched_at = excluded.fetched_at`,
			bookmark.ID, bookmark.DisplayTitle(), contentURL(bookmark.Content),
			bookmark.Content.Type, archived, bookmark.CreatedAt, raw, now)
		if err != nil {
			return fmt.Errorf("upsert bookmark %s: %w", bookmark.ID, err)
		}
	}
	return nil
}

func contentURL(content karakeep.Content) string {
	if content.Type == karakeep.ContentTypeLink {
		return content.URL
	}
	return content.SourceURL
}

// Bookmarks returns all cached bookmarks decoded from their stored
// payloads.
func (s *Store) Bookmarks(ctx context.Context) ([]karakeep.Bookmark, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT raw FROM bookmarks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []karakeep.Bookmark
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		var bookmark karakeep.Bookmark
		if err := json.Unmarshal(raw, &bookmark); err != nil {
			return nil, fmt.Errorf("decode cached bookmark: %w", err)
		}
		bookmarks = append(bookmarks, bookmark)
	}
	return bookmarks, rows.Err()
}

// Candidates returns the cached bookmarks as match candidates.
func (s *Store) Candidates(ctx context.Context) ([]bookmarkmatch.Candidate, error) {
	bookmarks, err := s.Bookmarks(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]bookmarkmatch.Candidate, 0, len(bookmarks))
	for _, bookmark := range bookmarks {
		candidates = append(candidates, Candidate(bookmark))
	}
	return candidates, nil
}

// Candidate converts an API bookmark into a match candidate.
func Candidate(bookmark karakeep.Bookmark) bookmarkmatch.Candidate {
	kind := bookmarkmatch.ContentLink
	switch bookmark.Content.Type {
	case karakeep.ContentTypeText:
		kind = bookmarkmatch.ContentText
	case karakeep.ContentTypeAsset:
		kind = bookmarkmatch.ContentAsset
	}
	return bookmarkmatch.Candidate{
		ID:          bookmark.ID,
		RecordTitle: bookmark.DisplayTitle(),
		Archived:    bookmark.Archived,
		Content: bookmarkmatch.Content{
			Kind:      kind,
			URL:       bookmark.Content.URL,
			Title:     bookmark.Content.Title,
			SourceURL: bookmark.Content.SourceURL,
		},
	}
}

// Stats summarizes the cache contents.
type Stats struct {
	Total    int
	Archived int
	Links    int
	Texts    int
	Assets   int
}

// Stats reports aggregate counts for the cached bookmarks.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	row := s.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(archived), 0),
       COALESCE(SUM(content_type = 'link'), 0),
       COALESCE(SUM(content_type = 'text'), 0),
       COALESCE(SUM(content_type = 'asset'), 0)
FROM bookmarks`)
	if err := row.Scan(&stats.Total, &stats.Archived, &stats.Links, &stats.Texts, &stats.Assets); err != nil {
		return Stats{}, fmt.Errorf("query cache stats: %w", err)
	}
	return stats, nil
}

// Count returns the number of cached bookmarks.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookmarks: %w", err)
	}
	return count, nil
}

// Clear removes all cached bookmarks.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.execWithRetry(ensureContext(ctx), `DELETE FROM bookmarks`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}
