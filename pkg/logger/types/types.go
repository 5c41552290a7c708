package types

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a named sugared logger handed to every component.
type Logger struct {
	*zap.SugaredLogger
	LogsPath string
	Name     string
}

// Log is a single entry passed to a LogHook.
type Log struct {
	Timestamp  time.Time
	Caller     string
	LoggerName string
	Level      zapcore.Level
	Message    string
}

// LogHook is called for each written entry.
type LogHook func(log Log)
