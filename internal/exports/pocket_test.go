package exports

import (
	"os"
	"path/filepath"
	"testing"

	"bookferry/internal/bookmarkmatch"
)

func writePocketCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "part_000000.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPocket(t *testing.T) {
	path := writePocketCSV(t, `title,url,time_added,tags,status
An Article,https://example.com/a,1700000000,,archive
Another,https://example.com/b,1700000001,tech,unread
,https://example.com/untitled,1700000002,,archive
skipped row,,1700000003,,archive
`)

	records, err := LoadPocket(path)
	if err != nil {
		t.Fatalf("LoadPocket: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3 (blank url skipped)", len(records))
	}
	if records[0].Title != "An Article" || records[0].State != bookmarkmatch.StateArchived {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].State != bookmarkmatch.StateActive {
		t.Errorf("unread status should map to active: %+v", records[1])
	}
	if records[2].Title != "" || records[2].URL != "https://example.com/untitled" {
		t.Errorf("records[2] = %+v", records[2])
	}
}

func TestLoadPocketRequiresURLColumn(t *testing.T) {
	path := writePocketCSV(t, "title,status\nA,archive\n")
	if _, err := LoadPocket(path); err == nil {
		t.Fatal("expected error for missing url column")
	}
}

func TestLoadPocketMissingFile(t *testing.T) {
	if _, err := LoadPocket(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
