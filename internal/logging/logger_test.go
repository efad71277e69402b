package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("cache populated", Args(Int(FieldCount, 42), String("source", "karakeep"))...)

	out := buf.String()
	if !strings.Contains(out, "INFO") {
		t.Errorf("expected level label in output, got %q", out)
	}
	if !strings.Contains(out, "cache populated") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "count=42") {
		t.Errorf("expected count attribute in output, got %q", out)
	}
	if !strings.Contains(out, "source=karakeep") {
		t.Errorf("expected source attribute in output, got %q", out)
	}
}

func TestNewConsoleComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	NewComponentLogger(logger, "migrate").Info("run started")

	out := buf.String()
	if !strings.Contains(out, "migrate: run started") {
		t.Errorf("expected component prefix, got %q", out)
	}
	if strings.Contains(out, "component=") {
		t.Errorf("component should not repeat as key=value, got %q", out)
	}
}

func TestNewConsoleLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("levels below warn should be suppressed, got %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn record missing, got %q", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("bookmark archived", Args(String(FieldBookmark, "bm-1"))...)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "bookmark archived" {
		t.Errorf("msg = %v, want %q", record["msg"], "bookmark archived")
	}
	if record["level"] != "info" {
		t.Errorf("level = %v, want info", record["level"])
	}
	if record["bookmark_id"] != "bm-1" {
		t.Errorf("bookmark_id = %v, want bm-1", record["bookmark_id"])
	}
	if _, ok := record["ts"]; !ok {
		t.Errorf("expected ts key in JSON record: %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"", "INFO"},
		{"WARN", "WARN"},
		{"error", "ERROR"},
		{"bogus", "INFO"},
	}
	for _, tc := range cases {
		if got := levelLabel(parseLevel(tc.in)); got != tc.want {
			t.Errorf("parseLevel(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("never seen", Args(Error(nil))...)
	if logger.Enabled(nil, 12) {
		t.Error("noop logger should never be enabled")
	}
}
