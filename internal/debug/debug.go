package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// EnvVar names the environment variable holding the debug log path.
const EnvVar = "TUI_DEBUG"

var (
	mu     sync.Mutex
	file   *os.File
	logger *slog.Logger
	once   sync.Once
)

// Init opens path for appending and routes debug messages to it as JSON
// lines. An empty path disables logging. A previously opened file is closed.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	once.Do(func() {})
	return open(path)
}

func open(path string) error {
	if file != nil {
		file.Close()
		file = nil
		logger = nil
	}
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	file = f
	logger = newLogger(f)
	return nil
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// SetOutput routes debug messages to w. Pass nil to disable logging.
// Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	once.Do(func() {})
	if file != nil {
		file.Close()
		file = nil
	}
	if w == nil {
		logger = nil
		return
	}
	logger = newLogger(w)
}

// Close closes the log file, if any, and disables logging.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	logger = nil
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// Enabled reports whether debug messages are written anywhere.
func Enabled() bool {
	return current() != nil
}

// current returns the active logger, reading TUI_DEBUG on first use.
func current() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	once.Do(func() {
		if path := strings.TrimSpace(os.Getenv(EnvVar)); path != "" {
			_ = open(path)
		}
	})
	return logger
}

// Log writes a debug message with alternating key/value pairs.
func Log(msg string, args ...any) {
	if l := current(); l != nil {
		l.Log(context.Background(), slog.LevelDebug, msg, args...)
	}
}

// Error writes an error-level message with alternating key/value pairs.
func Error(msg string, err error, args ...any) {
	if l := current(); l != nil {
		l.Log(context.Background(), slog.LevelError, msg, append([]any{"error", err}, args...)...)
	}
}
