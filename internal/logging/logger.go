// Package logging provides file-backed debug logging for taskpilot.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DebugLogger writes timestamped debug lines to a file with thread-safe
// access. A zero-valued or unconfigured logger is a safe no-op, so callers
// never need to nil-check before logging.
type DebugLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewDebugLogger creates a logger writing to the specified path.
// If the path is empty, returns a no-op logger.
// Creates parent directories if they don't exist.
func NewDebugLogger(logPath string) (*DebugLogger, error) {
	if logPath == "" {
		return &DebugLogger{}, nil
	}

	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger := &DebugLogger{file: f}
	logger.Log("=== TaskPilot Debug Log Started at %s ===", time.Now().Format(time.RFC3339))

	return logger, nil
}

// NewDebugLoggerForDir creates a debug logger under dir/logs/taskpilot.log.
// Returns a no-op logger if the directory cannot be created.
func NewDebugLoggerForDir(dir string) *DebugLogger {
	logger, err := NewDebugLogger(filepath.Join(dir, "logs", "taskpilot.log"))
	if err != nil {
		return &DebugLogger{}
	}
	return logger
}

// Log writes a formatted line with a timestamp prefix.
func (l *DebugLogger) Log(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	line := fmt.Sprintf("[%s] %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
	l.file.WriteString(line)
}

// Close closes the underlying file. Safe to call on a no-op logger.
func (l *DebugLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
