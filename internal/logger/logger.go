// Package logger builds the structured slog logger used by every command.
// Logs are JSON. With a log directory configured they go to
// <logDir>/system.log, rotated by size; otherwise they go to stderr so the
// terminal output of the CLI stays readable.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// NewSystemLogger creates a JSON slog.Logger writing to <logDir>/system.log.
// The directory is created if it does not exist. An empty logDir logs to stderr.
// The returned closer releases the log file and is safe to call when logging to stderr.
func NewSystemLogger(logDir string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if logDir == "" {
		return New(os.Stderr, level), nopCloser{}, nil
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("creating log directory %q: %w", logDir, err)
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "system.log"),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	return New(w, level), w, nil
}

// New creates a JSON slog.Logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
