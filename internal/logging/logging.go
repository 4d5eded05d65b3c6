// Package logging is a thin leveled wrapper around the standard logger.
// Messages carry the component tag used throughout the codebase, e.g.
// "[Cache] Loaded ...".
package logging

import (
	"log"
	"strings"
	"sync/atomic"
)

// Level represents different logging verbosity levels
type Level int32

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var current atomic.Int32

func init() {
	current.Store(int32(LevelInfo))
}

// ParseLevel maps ERROR, WARN, INFO or DEBUG (any case) to a Level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "INFO":
		return LevelInfo, true
	case "DEBUG":
		return LevelDebug, true
	}
	return LevelInfo, false
}

// SetLevel sets the process-wide level.
func SetLevel(l Level) {
	current.Store(int32(l))
}

// CurrentLevel returns the process-wide level.
func CurrentLevel() Level {
	return Level(current.Load())
}

// Logger writes messages tagged with a component name.
type Logger struct {
	prefix string
}

// New creates a logger for component.
func New(component string) *Logger {
	return &Logger{prefix: "[" + component + "] "}
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.output(LevelError, "ERROR: ", format, args)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.output(LevelWarn, "WARN: ", format, args)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.output(LevelInfo, "", format, args)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.output(LevelDebug, "DEBUG: ", format, args)
}

func (l *Logger) output(level Level, marker, format string, args []interface{}) {
	if CurrentLevel() < level {
		return
	}
	log.Printf(l.prefix+marker+format, args...)
}
