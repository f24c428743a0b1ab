// Package logger provides the leveled console logger used by the
// treewalk CLI. Output goes to an io.Writer with [HH:MM:SS] timestamps;
// writes are mutex-held so concurrent commands cannot interleave lines.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Numeric log levels for filtering.
const (
	levelTrace int = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
)

// ConsoleLogger writes timestamped, optionally colored log lines to a
// writer. A nil writer silently discards all messages.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to w.
// logLevel is the minimum level emitted; valid levels are trace, debug,
// info, warn and error (case-insensitive), defaulting to info when empty
// or unrecognized. Color is enabled when w is a TTY and color has not
// been disabled globally.
func NewConsoleLogger(w io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      w,
		logLevel:    normalizeLevel(logLevel),
		colorOutput: isTerminal(w),
	}
}

// DisableColor turns off colored output regardless of TTY detection.
func (cl *ConsoleLogger) DisableColor() {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.colorOutput = false
}

// Tracef logs at trace level (most verbose).
func (cl *ConsoleLogger) Tracef(format string, args ...any) {
	cl.logf("TRACE", format, args...)
}

// Debugf logs at debug level.
func (cl *ConsoleLogger) Debugf(format string, args ...any) {
	cl.logf("DEBUG", format, args...)
}

// Infof logs at info level.
func (cl *ConsoleLogger) Infof(format string, args ...any) {
	cl.logf("INFO", format, args...)
}

// Warnf logs at warn level.
func (cl *ConsoleLogger) Warnf(format string, args ...any) {
	cl.logf("WARN", format, args...)
}

// Errorf logs at error level.
func (cl *ConsoleLogger) Errorf(format string, args ...any) {
	cl.logf("ERROR", format, args...)
}

func (cl *ConsoleLogger) logf(level, format string, args ...any) {
	if cl.writer == nil {
		return
	}
	if levelToInt(strings.ToLower(level)) < levelToInt(cl.logLevel) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := time.Now().Format("15:04:05")
	message := fmt.Sprintf(format, args...)

	label := level
	if cl.colorOutput {
		label = levelColor(level).Sprint(level)
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, label, message)
}

func levelColor(level string) *color.Color {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack)
	case "DEBUG":
		return color.New(color.FgCyan)
	case "INFO":
		return color.New(color.FgBlue)
	case "WARN":
		return color.New(color.FgYellow)
	case "ERROR":
		return color.New(color.FgRed)
	}
	return color.New()
}

// isTerminal reports whether w is a TTY that should receive colors.
// NO_COLOR is honored through fatih/color's global detection.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return !color.NoColor && isatty.IsTerminal(f.Fd())
}

// normalizeLevel lowercases and validates a level name, defaulting to
// info.
func normalizeLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

func levelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	}
	return levelInfo
}
