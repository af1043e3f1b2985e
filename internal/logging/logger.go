// Package logging configures the charmbracelet/log loggers rubynest writes
// diagnostics with and carries them through contexts.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Level names accepted by New and SetLevel.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// interactivePrefix marks messages meant for the user rather than for
// debugging.
const interactivePrefix = "rubynest"

//nolint:gochecknoglobals // Process-wide logger shared by every command.
var (
	defaultMu     sync.RWMutex
	defaultLogger *log.Logger
)

// Default returns the process-wide logger. It writes to stderr at info
// level until SetDefault or SetLevel change it.
func Default() *log.Logger {
	defaultMu.RLock()
	logger := defaultLogger
	defaultMu.RUnlock()
	if logger != nil {
		return logger
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(LevelInfo)
	}
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}

// New creates a stderr logger. Unknown levels fall back to info.
func New(level string) *log.Logger {
	return NewWriter(os.Stderr, level)
}

// NewWriter creates a logger writing to w.
func NewWriter(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: false,
		ReportCaller:    false,
	})
}

// NewInteractive creates an info-level logger for messages addressed to
// the user, such as the outcome of init or the list of prompt modes.
func NewInteractive(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: interactivePrefix,
		Level:  log.InfoLevel,
	})
}

// ParseLevel maps a level name to a log level, case-insensitively.
// "warning" is an alias for warn; anything else unknown is info.
func ParseLevel(name string) log.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = LevelWarn
	}
	switch name {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		level, err := log.ParseLevel(name)
		if err == nil {
			return level
		}
	}
	return log.InfoLevel
}
