// Package logger provides leveled logging for the certkeeper daemon.
//
// Log lines go to stderr, separate from the user-facing output written by
// the output package, so `certkeeper check --json` stays machine readable
// while the reconciler logs what it is doing.
//
// # Log Levels
//
//   - Debug: command output, per-certificate inspection detail
//   - Info: cycle progress (bootstrap, renew, reload)
//   - Warn: corrupt certificates, failed asset downloads
//   - Error: failed reloads, failed notifications, aborted cycles
//
// The default level is Info. `--verbose` or `log_level: debug` lowers it.
//
// # Output Format
//
//	[LEVEL] YYYY-MM-DD HH:MM:SS message key=value ...
//	[INFO] 2026-02-03 10:30:45 Renewing certificate cycle=5b1c... name=example.com
//
// # Scoped Fields
//
// With returns an Entry that appends a fixed set of fields to every line.
// The reconciler uses it to tag each cycle with an id:
//
//	log := logger.With(map[string]interface{}{"cycle": id})
//	log.Info("Bootstrapping %s", name)
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name (case-insensitive) into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger handles leveled logging with thread-safe output.
type Logger struct {
	level  Level
	output io.Writer
	mu     sync.Mutex
}

var std = &Logger{
	level:  LevelInfo,
	output: os.Stderr,
}

// Init sets the global level from the --verbose flag and the configured
// level name. verbose always wins.
func Init(verbose bool, level string) error {
	lvl, err := ParseLevel(level)
	if verbose {
		lvl, err = LevelDebug, nil
	}
	SetLevel(lvl)
	return err
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
}

// SetOutput sets the output destination for the global logger.
// A nil writer restores os.Stderr.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	std.output = w
}

// GetLevel returns the current log level.
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level
}

func (l *Logger) write(level Level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(l.output, "[%s] %s %s%s\n", level.String(), timestamp, msg, formatFields(fields))
}

// formatFields renders fields as sorted key=value pairs with a leading space.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	std.write(LevelDebug, fmt.Sprintf(format, args...), nil)
}

// Info logs an informational message.
func Info(format string, args ...interface{}) {
	std.write(LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	std.write(LevelWarn, fmt.Sprintf(format, args...), nil)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	std.write(LevelError, fmt.Sprintf(format, args...), nil)
}

// DebugFields logs a debug message with structured fields.
func DebugFields(msg string, fields map[string]interface{}) {
	std.write(LevelDebug, msg, fields)
}

// InfoFields logs an informational message with structured fields.
func InfoFields(msg string, fields map[string]interface{}) {
	std.write(LevelInfo, msg, fields)
}

// Entry carries fields that are appended to every line it logs.
type Entry struct {
	fields map[string]interface{}
}

// With returns an Entry bound to a copy of fields.
func With(fields map[string]interface{}) *Entry {
	copied := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &Entry{fields: copied}
}

// With returns a new Entry with extra fields merged over the current ones.
func (e *Entry) With(fields map[string]interface{}) *Entry {
	merged := make(map[string]interface{}, len(e.fields)+len(fields))
	for k, v := range e.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Entry{fields: merged}
}

func (e *Entry) Debug(format string, args ...interface{}) {
	std.write(LevelDebug, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Info(format string, args ...interface{}) {
	std.write(LevelInfo, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Warn(format string, args ...interface{}) {
	std.write(LevelWarn, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Error(format string, args ...interface{}) {
	std.write(LevelError, fmt.Sprintf(format, args...), e.fields)
}
