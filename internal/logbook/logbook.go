// internal/logbook/logbook.go
//
// The session journal backing the home-screen log panel. Entries are
// kept in a small in-memory ring for rendering (the panel redraws every
// frame) and written through to a plain text file for later inspection.

package logbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a journal entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// ringSize bounds the entries held for the panel; the file keeps everything.
const ringSize = 200

// Logbook records what happened during one session.
type Logbook struct {
	path string

	mu     sync.Mutex
	recent []string
}

// New creates a logbook journaling to path, creating parent directories
// as needed. The file accumulates across sessions; the panel shows only
// the current one.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Logbook{path: path}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append records a single entry. Write failures are swallowed: the
// journal must never take the UI down with it.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	line := fmt.Sprintf("%s %-5s %s",
		time.Now().Format("15:04:05"),
		string(level),
		strings.TrimSpace(message),
	)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.recent = append(l.recent, line)
	if len(l.recent) > ringSize {
		l.recent = l.recent[len(l.recent)-ringSize:]
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line + "\n")
}

// Tail returns up to maxLines of this session's most recent entries.
func (l *Logbook) Tail(maxLines int) []string {
	if l == nil || maxLines <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.recent) == 0 {
		return nil
	}
	start := 0
	if len(l.recent) > maxLines {
		start = len(l.recent) - maxLines
	}
	out := make([]string, len(l.recent)-start)
	copy(out, l.recent[start:])
	return out
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}
