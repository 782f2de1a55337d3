package logbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTailReturnsRecentLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines := book.Tail(3)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestTailEmptyLogbook(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "never-written.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	if lines := book.Tail(10); lines != nil {
		t.Fatalf("expected nil tail before any entry, got %v", lines)
	}
}

func TestEntriesWrittenThroughToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Info("created person 1")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	if !strings.Contains(string(data), "created person 1") {
		t.Fatalf("journal file missing entry, got %q", data)
	}
}

func TestLevelsRecorded(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "session.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Warn("low balance")
	book.Error("delete failed")
	lines := book.Tail(2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "WARN") || !strings.Contains(lines[1], "ERROR") {
		t.Fatalf("levels missing: %v", lines)
	}
}
