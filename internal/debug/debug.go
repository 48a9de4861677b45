// Package debug carries dictum's diagnostic output: verbose tracing and
// warnings on stderr, silenced by quiet mode.
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

// quietLevel sits above every standard slog level.
const quietLevel = slog.Level(100)

var (
	enabled     = os.Getenv("DICTUM_DEBUG") != ""
	verboseMode = false
	quietMode   = false

	mu     sync.Mutex
	out    io.Writer = os.Stderr
	logger *slog.Logger
)

// Enabled reports whether debug tracing is on, via DICTUM_DEBUG or --verbose.
func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = verbose
	logger = nil
}

// SetQuiet enables quiet mode (suppress non-essential output)
func SetQuiet(quiet bool) {
	mu.Lock()
	defer mu.Unlock()
	quietMode = quiet
	logger = nil
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

// SetOutput redirects the trace logger. Tests use it to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	logger = nil
}

// Logger returns the process logger. It logs warnings and above normally,
// everything when debug is enabled, and nothing in quiet mode.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level()}))
	}
	return logger
}

func level() slog.Level {
	switch {
	case quietMode:
		return quietLevel
	case enabled || verboseMode:
		return slog.LevelDebug
	default:
		return slog.LevelWarn
	}
}

// Logf emits a debug trace line when tracing is enabled.
func Logf(format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	Logger().Log(context.Background(), slog.LevelDebug, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

// Warnf logs a warning unless quiet mode is enabled.
func Warnf(format string, args ...interface{}) {
	Logger().Warn(strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}
