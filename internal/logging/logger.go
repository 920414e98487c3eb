// Package logging configures the charmbracelet/log loggers backlogmd writes
// diagnostics with. Conversion results go to the reporter; loggers carry
// everything else (config warnings, debug traces, stdin verification).
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // Process-wide default, swapped atomically.
var defaultLogger atomic.Pointer[log.Logger]

// New creates a stderr logger at the named level. Unknown levels mean info.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewInteractive creates the logger used for messages meant for a person,
// such as the confirmation printed by init.
func NewInteractive() *log.Logger {
	return NewWithWriter(os.Stderr, log.InfoLevel.String())
}

// NewWithWriter creates a logger writing to w at the named level.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{})
	logger.SetLevel(parseLevel(level))
	return logger
}

// Default returns the process-wide logger, creating an info-level one on
// first use.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New(log.InfoLevel.String()))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(parseLevel(level))
}

func parseLevel(level string) log.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return log.WarnLevel
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}
