package karakeep

import (
	"encoding/json"
	"testing"
)

func TestContentUnmarshalLink(t *testing.T) {
	data := []byte(`{"type":"link","url":"https://example.com/a","title":"Article","htmlContent":"<p>hi</p>"}`)
	var content Content
	if err := json.Unmarshal(data, &content); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if content.Type != ContentTypeLink {
		t.Errorf("Type = %q", content.Type)
	}
	if content.URL != "https://example.com/a" || content.Title != "Article" || content.HTMLContent != "<p>hi</p>" {
		t.Errorf("content = %+v", content)
	}
}

func TestContentUnmarshalText(t *testing.T) {
	data := []byte(`{"type":"text","text":"a note","sourceUrl":"https://example.com/src"}`)
	var content Content
	if err := json.Unmarshal(data, &content); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if content.Type != ContentTypeText || content.Text != "a note" || content.SourceURL != "https://example.com/src" {
		t.Errorf("content = %+v", content)
	}
}

func TestContentUnmarshalRejectsUnknownType(t *testing.T) {
	var content Content
	if err := json.Unmarshal([]byte(`{"type":"video"}`), &content); err == nil {
		t.Fatal("expected error for unsupported content type")
	}
}

func TestContentMarshalOmitsForeignFields(t *testing.T) {
	content := Content{Type: ContentTypeText, Text: "t", URL: "https://leak.example.com"}
	data, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, present := raw["url"]; present {
		t.Errorf("text content should not carry a url field: %s", data)
	}
	if raw["text"] != "t" {
		t.Errorf("payload = %s", data)
	}
}

func TestBookmarkDisplayTitle(t *testing.T) {
	cases := []struct {
		name     string
		bookmark Bookmark
		want     string
	}{
		{"own title", Bookmark{Title: "Mine", Content: Content{Title: "Theirs"}}, "Mine"},
		{"content fallback", Bookmark{Content: Content{Title: "Theirs"}}, "Theirs"},
		{"whitespace title", Bookmark{Title: "  ", Content: Content{Title: "Theirs"}}, "Theirs"},
		{"no title", Bookmark{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.bookmark.DisplayTitle(); got != tc.want {
				t.Errorf("DisplayTitle() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBookmarkCreatedTime(t *testing.T) {
	bookmark := Bookmark{CreatedAt: "2024-03-01T12:30:45.123Z"}
	ts, err := bookmark.CreatedTime()
	if err != nil {
		t.Fatalf("CreatedTime: %v", err)
	}
	if ts.Year() != 2024 || ts.Month() != 3 || ts.Day() != 1 {
		t.Errorf("ts = %v", ts)
	}

	bookmark.CreatedAt = "yesterday"
	if _, err := bookmark.CreatedTime(); err == nil {
		t.Error("expected parse error")
	}
}

func TestBookmarkHasTag(t *testing.T) {
	bookmark := Bookmark{Tags: []BookmarkTag{{Name: "0-5m"}, {Name: "reading"}}}
	if !bookmark.HasTag("reading") {
		t.Error("expected HasTag to find existing tag")
	}
	if bookmark.HasTag("5-10m") {
		t.Error("HasTag matched an absent tag")
	}
}
