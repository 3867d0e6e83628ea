package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Leveled logger used across the glossary service.
// - Init(level) configures the process logger (JSON to stdout)
// - L() returns the structured *zap.Logger handed to components
// - Debugf/Infof/... remain for bootstrap code in main

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base  = newLogger(os.Stdout)
)

func newLogger(w io.Writer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	s := strings.ToLower(strings.TrimSpace(l))
	switch s {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn", "warning":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	case "fatal":
		level.SetLevel(zapcore.FatalLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

// L returns the process logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Named returns a child logger for a component.
func Named(name string) *zap.Logger { return L().Named(name) }

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// SetOutput redirects the process logger, e.g. to stderr for the CLI.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = newLogger(w)
}

func sugar() *zap.SugaredLogger { return L().Sugar() }

func Debugf(format string, v ...interface{}) { sugar().Debugf(format, v...) }
func Infof(format string, v ...interface{})  { sugar().Infof(format, v...) }
func Warnf(format string, v ...interface{})  { sugar().Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { sugar().Errorf(format, v...) }

func Fatalf(format string, v ...interface{}) {
	sugar().Errorf(format, v...)
	_ = L().Sync()
	os.Exit(1)
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) { sugar().Info(strings.TrimSuffix(fmt.Sprintln(v...), "\n")) }

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { L().Debug(v) }
func Info(v string)  { L().Info(v) }
func Warn(v string)  { L().Warn(v) }
func Error(v string) { L().Error(v) }

// LevelString returns the current level as text.
func LevelString() string {
	return level.Level().String()
}
