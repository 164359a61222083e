// Package logging provides the structured debug log.
//
// Logging is off by default. Init routes records to a file opened through
// tea.LogToFile so the alt-screen UI is never written over.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// EnvDebug enables the debug log when set to a non-empty value.
const EnvDebug = "TYPIST_DEBUG"

var (
	mu     sync.RWMutex
	logger = slog.New(slog.DiscardHandler)
)

// Enabled reports whether debug logging was requested by flag or environment.
func Enabled(flag bool) bool {
	return flag || os.Getenv(EnvDebug) != ""
}

// Init opens path for appending and sends all records at or above level to it.
// The returned cleanup restores the discard logger and closes the file.
func Init(path string, level slog.Level) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "typist")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	set(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return func() {
		set(slog.New(slog.DiscardHandler))
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of the debug log.
			_ = cerr
		}
	}, nil
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// For returns the current logger tagged with a component name.
func For(component string) *slog.Logger {
	return Logger().With("component", component)
}

func set(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}
