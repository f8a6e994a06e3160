package logging

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields carries structured key/value pairs for a single log entry.
type Fields map[string]interface{}

var (
	mu   sync.RWMutex
	base = zap.NewNop()
)

// New builds the process logger. Level is one of debug, info, warn, error.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// SetDefault installs l as the root for every component logger.
func SetDefault(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
}

// Default returns the root logger.
func Default() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Logger is a named component logger.
type Logger struct {
	name string
}

// NewLogger creates a logger for the named component.
func NewLogger(name string) *Logger {
	return &Logger{name: name}
}

func (l *Logger) core() *zap.Logger {
	if l == nil || l.name == "" {
		return Default()
	}
	return Default().Named(l.name)
}

func (l *Logger) Debug(msg string, fields ...Fields) {
	l.core().Debug(msg, toZap(fields)...)
}

func (l *Logger) Info(msg string, fields ...Fields) {
	l.core().Info(msg, toZap(fields)...)
}

func (l *Logger) Warn(msg string, fields ...Fields) {
	l.core().Warn(msg, toZap(fields)...)
}

func (l *Logger) Error(msg string, fields ...Fields) {
	l.core().Error(msg, toZap(fields)...)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, fields ...Fields) {
	l.core().Fatal(msg, toZap(fields)...)
}

// Infof logs an unstructured message.
// TODO(TEAM-PLATFORM): Remove once startup messages move to structured fields
func Infof(format string, args ...interface{}) {
	Default().Sugar().Infof(format, args...)
}

// Sync flushes buffered entries.
func Sync() {
	_ = Default().Sync()
}

func toZap(fields []Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields[0]))
	for _, f := range fields {
		for k, v := range f {
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
