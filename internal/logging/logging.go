// internal/logging/logging.go
//
// Structured diagnostics go to a file: the terminal itself belongs to
// the TUI, so nothing may write to stdout/stderr while it runs.

package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Open creates (or appends to) the diagnostics log file and returns a
// slog.Logger writing to it. The caller owns closing the returned file.
func Open(path string) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open log file: %w", err)
	}
	logger := slog.New(tint.NewHandler(file, &tint.Options{
		Level:      levelFromEnv(),
		TimeFormat: time.TimeOnly,
		NoColor:    true,
	}))
	return logger, file, nil
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("BUDGETBOOK_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
