// Package logging provides the coordinator's logger. Unlike the teacher's
// internal/debug package (a package-level singleton guarded by a mutex),
// a Logger here is an explicit value constructed once and passed to the
// components that log, LanguageService and the mcpapi server (AstCache and
// the feature providers do not log) — see the redesign note in
// SPEC_FULL.md about global mutable logging singletons.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is the logging verbosity, matching the ERROR|WARN|INFO|DEBUG
// surface the spec calls out as an optionally-honored environment knob.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses one of ERROR|WARN|INFO|DEBUG, case-insensitively,
// defaulting to LevelInfo for an unrecognized value.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger is a leveled sink. The zero value is silent (writes nowhere),
// which keeps tests that don't care about logging free of setup.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

// New creates a Logger writing at or above level to w. A nil w produces a
// silent logger.
func New(w io.Writer, level Level) *Logger {
	return &Logger{out: w, level: level}
}

// Discard is a pre-built silent logger, handy as a default collaborator.
var Discard = New(nil, LevelError)

func (l *Logger) log(level Level, format string, args ...any) {
	if l == nil || l.out == nil || level > l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(l.out, "%s [%s] %s\n", ts, level, fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }

// NewFileLogger opens (creating if needed) a log file under dir and
// returns a Logger writing to it along with the file for the caller to
// Close. Mirrors the teacher's InitDebugLogFile, but without mutating
// any package-level state.
func NewFileLogger(dir string, level Level) (*Logger, *os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	name := fmt.Sprintf("wflsp-%s.log", time.Now().Format("2006-01-02T150405"))
	f, err := os.OpenFile(dir+string(os.PathSeparator)+name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f, nil
}
