package exports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bookferry/internal/bookmarkmatch"
)

// Content kinds found in an Omnivore content/ directory.
const (
	ContentHTML = ".html"
	ContentPDF  = ".pdf"
)

type omnivoreRecord struct {
	Slug            string `json:"slug"`
	URL             string `json:"url"`
	Title           string `json:"title"`
	State           string `json:"state"`
	ReadingProgress int    `json:"readingProgress"`
}

// OmnivoreExport is a loaded Omnivore export directory.
type OmnivoreExport struct {
	Dir     string
	Records []bookmarkmatch.SourceRecord

	bySlug map[string]int
}

// LoadOmnivore reads and concatenates all metadata batches under dir.
// Files are read in sorted order so repeated loads see records in the
// same sequence.
func LoadOmnivore(dir string) (*OmnivoreExport, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("omnivore export directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("omnivore export %s is not a directory", dir)
	}

	pattern := filepath.Join(dir, "metadata_*_to_*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob metadata files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no metadata_*_to_*.json files in %s", dir)
	}
	sort.Strings(files)

	export := &OmnivoreExport{Dir: dir, bySlug: make(map[string]int)}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(file), err)
		}
		var records []omnivoreRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(file), err)
		}
		for _, record := range records {
			export.bySlug[record.Slug] = len(export.Records)
			export.Records = append(export.Records, bookmarkmatch.SourceRecord{
				URL:             record.URL,
				Title:           record.Title,
				State:           bookmarkmatch.ParseState(record.State),
				ReadingProgress: record.ReadingProgress,
				Slug:            record.Slug,
			})
		}
	}
	return export, nil
}

// Archived returns the records marked archived in the export.
func (e *OmnivoreExport) Archived() []bookmarkmatch.SourceRecord {
	var archived []bookmarkmatch.SourceRecord
	for _, record := range e.Records {
		if record.State == bookmarkmatch.StateArchived {
			archived = append(archived, record)
		}
	}
	return archived
}

// RecordBySlug looks up the export record for an article slug.
func (e *OmnivoreExport) RecordBySlug(slug string) (bookmarkmatch.SourceRecord, bool) {
	idx, ok := e.bySlug[slug]
	if !ok {
		return bookmarkmatch.SourceRecord{}, false
	}
	return e.Records[idx], true
}

// HighlightFile holds the parsed highlight quotes for one article.
type HighlightFile struct {
	Slug   string
	Quotes []string
}

// Highlights reads the highlights/ directory. Empty files are skipped.
func (e *OmnivoreExport) Highlights() ([]HighlightFile, error) {
	dir := filepath.Join(e.Dir, "highlights")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read highlights directory: %w", err)
	}

	var files []HighlightFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		quotes := SplitHighlights(string(data))
		if len(quotes) == 0 {
			continue
		}
		files = append(files, HighlightFile{
			Slug:   strings.TrimSuffix(entry.Name(), ".md"),
			Quotes: quotes,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Slug < files[j].Slug })
	return files, nil
}

// SplitHighlights parses one highlights markdown file into individual
// quotes. Omnivore writes each highlight as a markdown blockquote
// separated by blank lines.
func SplitHighlights(text string) []string {
	parts := strings.Split(strings.TrimSpace(text), "\n> ")
	quotes := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "> ")
		part = strings.TrimSpace(strings.TrimPrefix(part, ">"))
		if part != "" {
			quotes = append(quotes, part)
		}
	}
	return quotes
}

// ContentKind returns the file extension of the captured content for an
// article slug, such as ".html" or ".pdf".
func (e *OmnivoreExport) ContentKind(slug string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(e.Dir, "content", slug+".*"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return filepath.Ext(matches[0]), true
}
