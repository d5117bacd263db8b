package logger

import (
	"strings"
	"sync"
)

// Logger provides structured logging with levels

type Logger struct {
	MinLevel LogLevel
	mu       sync.Mutex
}

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func New(minLevel LogLevel) *Logger {
	return &Logger{MinLevel: minLevel}
}

// FromEnv builds a logger whose minimum level comes from the given
// environment value ("debug", "info", "warn", "error").
func FromEnv(level string) *Logger {
	for lvl, name := range logLevelNames {
		if strings.EqualFold(name, level) {
			return New(lvl)
		}
	}
	return New(LevelInfo)
}
