package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorGray   = "\033[90m"
)

const timestampLayout = "06-01-02 15:04:05"

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

const levelCount = int(FATAL) + 1

var levelStyles = [levelCount]struct {
	label string
	color string
}{
	DEBUG: {"DEBUG", ColorGray},
	INFO:  {"INFO", ColorBlue},
	WARN:  {"WARN", ColorYellow},
	ERROR: {"ERROR", ColorRed},
	FATAL: {"FATAL", ColorPurple},
}

func (l LogLevel) valid() bool {
	return l >= DEBUG && l <= FATAL
}

func (l LogLevel) String() string {
	if !l.valid() {
		return "UNKNOWN"
	}
	return levelStyles[l].label
}

// ColoredLogger writes one line per message. Stdout carries the diagram,
// so every level defaults to stderr.
type ColoredLogger struct {
	mu      sync.Mutex
	verbose bool
	color   bool
	sinks   [levelCount]io.Writer
}

var globalLogger = newColoredLogger(os.Stderr)

func newColoredLogger(w io.Writer) *ColoredLogger {
	cl := &ColoredLogger{color: true}
	for i := range cl.sinks {
		cl.sinks[i] = w
	}
	return cl
}

func SetVerbose(verbose bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.verbose = verbose
}

func IsVerbose() bool {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	return globalLogger.verbose
}

// SetColor toggles ANSI colors in formatted messages.
func SetColor(enabled bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.color = enabled
}

// SetWriter replaces the destination of one level.
func SetWriter(level LogLevel, writer io.Writer) {
	if !level.valid() {
		return
	}
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.sinks[level] = writer
}

func SetWriterForAll(writer io.Writer) {
	for level := DEBUG; level <= FATAL; level++ {
		SetWriter(level, writer)
	}
}

// AddWriter tees one level to an extra destination.
func AddWriter(level LogLevel, writer io.Writer) {
	if !level.valid() {
		return
	}
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.sinks[level] = io.MultiWriter(globalLogger.sinks[level], writer)
}

func AddWriterForAll(writer io.Writer) {
	for level := DEBUG; level <= FATAL; level++ {
		AddWriter(level, writer)
	}
}

// OpenLogFile appends every level to the file at path. The caller closes
// the returned file.
func OpenLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	AddWriterForAll(f)
	return f, nil
}

func (cl *ColoredLogger) line(level LogLevel, message string) string {
	ts := time.Now().Format(timestampLayout)
	style := levelStyles[level]
	if !cl.color {
		return fmt.Sprintf("[%s] %-5s %s", ts, style.label, message)
	}
	return fmt.Sprintf("%s[%s]%s %s%-5s%s %s",
		ColorGray, ts, ColorReset,
		style.color, style.label, ColorReset,
		message)
}

// log serializes writes so lines from parallel parses never interleave.
func (cl *ColoredLogger) log(level LogLevel, format string, args ...interface{}) {
	if !level.valid() {
		return
	}

	cl.mu.Lock()
	if level == DEBUG && !cl.verbose {
		cl.mu.Unlock()
		return
	}
	fmt.Fprintln(cl.sinks[level], cl.line(level, fmt.Sprintf(format, args...)))
	cl.mu.Unlock()

	if level == FATAL {
		os.Exit(1)
	}
}

func Debug(format string, args ...interface{}) {
	globalLogger.log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.log(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.log(ERROR, format, args...)
}

func Fatal(format string, args ...interface{}) {
	globalLogger.log(FATAL, format, args...)
}

func GetLogFromLevel(level LogLevel) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		globalLogger.log(level, format, args...)
	}
}
