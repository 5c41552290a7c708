package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log *types.Logger

	hookMu  sync.RWMutex
	logHook types.LogHook
)

// Config represents configuration options for logger initialization
type Config struct {
	Debug        bool           // Enable debug logging
	TimeLocation *time.Location // Location used for timestamps (defaults to UTC)
	LogToFile    bool           // Mirror entries as JSON into LogsDir
	LogsDir      string         // Directory for log files, relative to the working directory
}

// SetLogHook installs a hook called for every entry written after this call.
func SetLogHook(hook types.LogHook) {
	hookMu.Lock()
	logHook = hook
	hookMu.Unlock()
	if Log != nil {
		Log.Debug("Log hook set")
	}
}

func currentHook() types.LogHook {
	hookMu.RLock()
	defer hookMu.RUnlock()
	return logHook
}

// Init builds the root "main" logger. It must be called before Named.
func Init(config Config) error {
	var l types.Logger
	l.Name = "main"

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	l.LogsPath = wd
	if config.LogsDir != "" {
		l.LogsPath = filepath.Join(wd, config.LogsDir)
	}

	loc := config.TimeLocation
	if loc == nil {
		loc = time.UTC
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "timestamp",
		NameKey:      "logger",
		CallerKey:    "caller",
		EncodeCaller: zapcore.ShortCallerEncoder,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.In(loc).Format("2006-01-02 15:04:05"))
		},
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	level := zapcore.InfoLevel
	if config.Debug {
		level = zapcore.DebugLevel
	}

	consoleConfig := encoderConfig
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stdout), level),
	}

	if config.LogToFile {
		if err = os.MkdirAll(l.LogsPath, os.ModePerm); err != nil {
			return err
		}
		path := filepath.Join(l.LogsPath, fmt.Sprintf("%s.log", time.Now().In(loc).Format("2006-01-02")))
		file, errOpen := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if errOpen != nil {
			return errOpen
		}
		fileConfig := encoderConfig
		fileConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileConfig), zapcore.AddSync(file), level))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.Hooks(func(entry zapcore.Entry) error {
		if hook := currentHook(); hook != nil {
			hook(types.Log{
				Timestamp:  entry.Time,
				Caller:     entry.Caller.String(),
				LoggerName: entry.LoggerName,
				Level:      entry.Level,
				Message:    entry.Message,
			})
		}
		return nil
	}))

	l.SugaredLogger = log.Named(l.Name).Sugar()
	Log = &l
	return nil
}

// Named returns a child logger ("http", "database", "registration", ...).
func Named(name string) (*types.Logger, error) {
	if Log == nil {
		return nil, fmt.Errorf("logger is not initialized")
	}
	return &types.Logger{
		SugaredLogger: Log.SugaredLogger.Named(name),
		LogsPath:      Log.LogsPath,
		Name:          name,
	}, nil
}

// Nop returns a logger that discards everything. Used by tests and optional
// components that were built without a named logger.
func Nop() *types.Logger {
	return &types.Logger{SugaredLogger: zap.NewNop().Sugar(), Name: "nop"}
}
