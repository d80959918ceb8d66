package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// consoleLogger writes leveled "[HH:MM:SS] [LEVEL] msg" lines to a writer.
// The report goes to stdout, so this always points somewhere else (stderr).
type consoleLogger struct {
	writer      io.Writer
	level       int
	mutex       sync.Mutex
	colorOutput bool
}

// newConsoleLogger creates a logger filtering below level.
// Unknown levels fall back to "warn". A nil writer discards everything.
func newConsoleLogger(writer io.Writer, level string) *consoleLogger {
	return &consoleLogger{
		writer:      writer,
		level:       parseLogLevel(level),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether colored output is appropriate for w.
func isTerminal(w io.Writer) bool {
	if w == os.Stdout || w == os.Stderr {
		return !color.NoColor
	}
	return false
}

func parseLogLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "error":
		return levelError
	default:
		return levelWarn
	}
}

// validLogLevel reports whether level names a known level.
func validLogLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func (l *consoleLogger) Debugf(format string, args ...interface{}) {
	l.logf(levelDebug, "DEBUG", format, args...)
}

func (l *consoleLogger) Infof(format string, args ...interface{}) {
	l.logf(levelInfo, "INFO", format, args...)
}

func (l *consoleLogger) Warnf(format string, args ...interface{}) {
	l.logf(levelWarn, "WARN", format, args...)
}

func (l *consoleLogger) Errorf(format string, args ...interface{}) {
	l.logf(levelError, "ERROR", format, args...)
}

// progress returns a writer for clone progress when info messages are shown.
func (l *consoleLogger) progress() io.Writer {
	if l.writer == nil || l.level > levelInfo {
		return nil
	}
	return l.writer
}

func (l *consoleLogger) logf(level int, name, format string, args ...interface{}) {
	if l.writer == nil || level < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	ts := time.Now().Format("15:04:05")
	if l.colorOutput {
		name = levelColor(level).Sprint(name)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	fmt.Fprintf(l.writer, "[%s] [%s] %s\n", ts, name, msg)
}

func levelColor(level int) *color.Color {
	switch level {
	case levelDebug:
		return color.New(color.FgCyan)
	case levelInfo:
		return color.New(color.FgBlue)
	case levelWarn:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

// writeSkipWarning lists paths dropped as unreadable. Used in strict mode only.
func writeSkipWarning(w io.Writer, skipped []SkippedPath, colorOutput bool) {
	if len(skipped) == 0 {
		return
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Warning: %d file(s) skipped as unreadable\n", len(skipped)))
	for i, s := range skipped {
		b.WriteString(fmt.Sprintf("    %d. %s\n", i+1, s))
	}

	if colorOutput {
		color.New(color.FgYellow).Fprint(w, b.String())
		return
	}
	fmt.Fprint(w, b.String())
}
