// Package logging provides structured logging for the sensor pipeline.
//
// Components hold a Logger and tag it with a "component" field; analysis
// hot paths log at Debug only so library use stays quiet by default.
package logging

import (
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields represents structured log fields
type Fields map[string]any

// Logger is the logging interface used throughout the library
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

// NewDefaultLogger creates a zap-backed logger writing to stderr at info level
func NewDefaultLogger() Logger {
	return NewLogger("info")
}

// NewLogger creates a zap-backed logger at the given level
// (debug, info, warn, error). Unknown levels fall back to info.
func NewLogger(level string) Logger {
	zapLevel := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		zapLevel = parsed
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		zapLevel,
	)

	return &zapLogger{logger: zap.New(core)}
}

// NewNopLogger creates a logger that discards everything. Useful for tests
// and for library consumers that wire their own logging.
func NewNopLogger() Logger {
	return &zapLogger{logger: zap.NewNop()}
}

// WithFields creates a default logger pre-tagged with the given fields
func WithFields(fields Fields) Logger {
	return NewDefaultLogger().WithFields(fields)
}

type zapLogger struct {
	logger *zap.Logger
}

func (z *zapLogger) Debug(msg string, fields ...Fields) {
	z.logger.Debug(msg, zapFields(fields)...)
}

func (z *zapLogger) Info(msg string, fields ...Fields) {
	z.logger.Info(msg, zapFields(fields)...)
}

func (z *zapLogger) Warn(msg string, fields ...Fields) {
	z.logger.Warn(msg, zapFields(fields)...)
}

func (z *zapLogger) Error(err error, msg string, fields ...Fields) {
	zfs := zapFields(fields)
	if err != nil {
		zfs = append(zfs, zap.Error(err))
	}
	z.logger.Error(msg, zfs...)
}

func (z *zapLogger) WithFields(fields Fields) Logger {
	return &zapLogger{logger: z.logger.With(zapFields([]Fields{fields})...)}
}

// zapFields flattens variadic Fields into sorted zap fields. Sorting keeps
// log lines deterministic, which matters for log-based test assertions.
func zapFields(fields []Fields) []zap.Field {
	total := 0
	for _, f := range fields {
		total += len(f)
	}
	if total == 0 {
		return nil
	}

	keys := make([]string, 0, total)
	merged := make(Fields, total)
	for _, f := range fields {
		for k, v := range f {
			if _, seen := merged[k]; !seen {
				keys = append(keys, k)
			}
			merged[k] = v
		}
	}
	sort.Strings(keys)

	zfs := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		zfs = append(zfs, zap.Any(k, merged[k]))
	}
	return zfs
}
