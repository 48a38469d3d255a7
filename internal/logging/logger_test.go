package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "file", "a.txt")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "shown" || entry["file"] != "a.txt" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestNewRejectsUnknownValues(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "filesorter.log")
	logger, closer, err := NewFile(Options{Format: "logfmt"}, path)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	defer closer.Close()
	logger.Info("hello")
}

func TestNewNopDiscards(t *testing.T) {
	NewNop().Error("nothing to see")
}
