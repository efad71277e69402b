package exports

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"bookferry/internal/bookmarkmatch"
)

// LoadPocket reads a Pocket CSV export. The file carries a header row of
// title,url,time_added,tags,status; entries with status "archive" map to
// StateArchived and everything else to StateActive.
func LoadPocket(path string) ([]bookmarkmatch.SourceRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pocket export: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read pocket header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	urlCol, ok := columns["url"]
	if !ok {
		return nil, fmt.Errorf("pocket export missing url column")
	}
	titleCol, hasTitle := columns["title"]
	statusCol, hasStatus := columns["status"]

	var records []bookmarkmatch.SourceRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read pocket row: %w", err)
		}
		if urlCol >= len(row) || strings.TrimSpace(row[urlCol]) == "" {
			continue
		}
		record := bookmarkmatch.SourceRecord{
			URL:   strings.TrimSpace(row[urlCol]),
			State: bookmarkmatch.StateActive,
		}
		if hasTitle && titleCol < len(row) {
			record.Title = strings.TrimSpace(row[titleCol])
		}
		if hasStatus && statusCol < len(row) {
			if strings.EqualFold(strings.TrimSpace(row[statusCol]), "archive") {
				record.State = bookmarkmatch.StateArchived
			}
		}
		records = append(records, record)
	}
	return records, nil
}
