package karakeep

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(server.URL, "test-key", WithRateInterval(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	client.sleep = func(time.Duration) {}
	return client
}

func TestListBookmarksSendsAuthAndClampsLimit(t *testing.T) {
	var gotAuth, gotLimit, gotCursor string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotLimit = r.URL.Query().Get("limit")
		gotCursor = r.URL.Query().Get("cursor")
		next := "cursor-2"
		json.NewEncoder(w).Encode(BookmarkPage{
			Bookmarks:  []Bookmark{{ID: "bm-1", Content: Content{Type: ContentTypeLink, URL: "https://example.com"}}},
			NextCursor: &next,
		})
	}))

	page, err := client.ListBookmarks(context.Background(), ListBookmarksOptions{Limit: 500, Cursor: "cursor-1"})
	if err != nil {
		t.Fatalf("ListBookmarks: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotLimit != "100" {
		t.Errorf("limit = %q, want clamped to 100", gotLimit)
	}
	if gotCursor != "cursor-1" {
		t.Errorf("cursor = %q", gotCursor)
	}
	if len(page.Bookmarks) != 1 || page.Bookmarks[0].ID != "bm-1" {
		t.Errorf("page = %+v", page)
	}
	if page.NextCursor == nil || *page.NextCursor != "cursor-2" {
		t.Errorf("NextCursor = %v", page.NextCursor)
	}
}

func TestUpdateBookmarkPatches(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(Bookmark{ID: "bm-1", Archived: true})
	}))

	archived := true
	updated, err := client.UpdateBookmark(context.Background(), "bm-1", BookmarkPatch{Archived: &archived})
	if err != nil {
		t.Fatalf("UpdateBookmark: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/bookmarks/bm-1" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if got, ok := gotBody["archived"].(bool); !ok || !got {
		t.Errorf("body = %v, want archived true", gotBody)
	}
	if _, present := gotBody["title"]; present {
		t.Errorf("nil patch fields should be omitted: %v", gotBody)
	}
	if !updated.Archived {
		t.Error("updated bookmark should be archived")
	}
}

func TestAttachTagsPayload(t *testing.T) {
	var gotBody tagRefs
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"attached":["t1"]}`)
	}))

	if err := client.AttachTags(context.Background(), "bm-1", []string{"5-10m"}); err != nil {
		t.Fatalf("AttachTags: %v", err)
	}
	if len(gotBody.Tags) != 1 || gotBody.Tags[0].TagName != "5-10m" {
		t.Errorf("payload = %+v", gotBody)
	}
}

func TestDoReturnsAuthenticationError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"bad key"}`)
	}))

	_, err := client.CurrentUser(context.Background())
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want AuthenticationError", err)
	}
	if authErr.Message != "bad key" {
		t.Errorf("Message = %q", authErr.Message)
	}
}

func TestDoReturnsAPIErrorWithoutRetry(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"no such bookmark"}`)
	}))

	_, err := client.GetBookmark(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want 404 APIError", err)
	}
	if calls != 1 {
		t.Errorf("HTTP errors must not be retried, got %d calls", calls)
	}
}

func TestDoRetriesTransportFailures(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			conn, _, err := w.(http.Hijacker).Hijack()
			if err == nil {
				conn.Close()
			}
			return
		}
		json.NewEncoder(w).Encode(UserStats{NumBookmarks: 7})
	}))

	stats, err := client.CurrentUserStats(context.Background())
	if err != nil {
		t.Fatalf("CurrentUserStats after retries: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if stats.NumBookmarks != 7 {
		t.Errorf("NumBookmarks = %d", stats.NumBookmarks)
	}
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))

	_, err := client.CurrentUser(context.Background())
	if err == nil {
		t.Fatal("expected transport error after exhausting retries")
	}
	if calls != DefaultRetries {
		t.Errorf("calls = %d, want %d", calls, DefaultRetries)
	}
}

func TestNewValidatesArguments(t *testing.T) {
	if _, err := New("", "key"); err == nil {
		t.Error("expected error for empty base url")
	}
	if _, err := New("http://localhost:3000/api/v1", " "); err == nil {
		t.Error("expected error for empty api key")
	}
}
