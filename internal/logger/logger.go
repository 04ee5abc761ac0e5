// Package logger gives gravity's server, wizard sessions and CLI one field-map
// logging API on top of zap. Credential-looking fields never reach the output.
package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger takes a message plus a flat map of fields. Derived loggers from
// WithFields, With and WithError carry their fields into every later entry.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger
	With(fields map[string]interface{}) Logger
}

const redacted = "[REDACTED]"

// credentialMarkers match field names after lowercasing and dropping - and _.
var credentialMarkers = []string{"apikey", "token", "secret", "password", "authorization"}

// parseLevel maps LOG_LEVEL values onto zap levels, info when unrecognized.
func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// New builds the zap logger behind NewStructured. "json" selects zap's
// production encoder; anything else gets the console one. A build failure
// yields a silent logger rather than an error.
func New(level, format string) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if format == "json" {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

type fieldLogger struct {
	z *zap.Logger
}

func (f *fieldLogger) Debug(msg string, fields map[string]interface{}) {
	f.z.Debug(msg, zapFields(fields)...)
}

func (f *fieldLogger) Info(msg string, fields map[string]interface{}) {
	f.z.Info(msg, zapFields(fields)...)
}

func (f *fieldLogger) Warn(msg string, fields map[string]interface{}) {
	f.z.Warn(msg, zapFields(fields)...)
}

func (f *fieldLogger) Error(msg string, fields map[string]interface{}) {
	f.z.Error(msg, zapFields(fields)...)
}

func (f *fieldLogger) WithFields(fields map[string]interface{}) Logger {
	return &fieldLogger{z: f.z.With(zapFields(fields)...)}
}

func (f *fieldLogger) WithError(err error) Logger {
	return &fieldLogger{z: f.z.With(zap.Error(err))}
}

func (f *fieldLogger) With(fields map[string]interface{}) Logger {
	return f.WithFields(fields)
}

// zapFields converts a field map, masking any credential value.
func zapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if IsSensitiveKey(k) {
			v = redacted
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}

// IsSensitiveKey reports whether a field such as apiKey or X-Api-Key should be masked.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(key))
	for _, m := range credentialMarkers {
		if strings.Contains(k, m) {
			return true
		}
	}
	return false
}

// NewStructured is what cmd/server and cmd/gravity log through.
func NewStructured(level, format string) Logger {
	return &fieldLogger{z: New(level, format)}
}

func NewZapAdapter(z *zap.Logger) Logger {
	return &fieldLogger{z: z}
}

// NewTestLogger writes through t.Log so output only shows for failing tests.
func NewTestLogger(t testing.TB) Logger {
	return &fieldLogger{z: zaptest.NewLogger(t)}
}

// NewNoOpLogger discards everything. Constructors fall back to it on a nil Logger.
func NewNoOpLogger() Logger {
	return &fieldLogger{z: zap.NewNop()}
}
