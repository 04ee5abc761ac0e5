package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"apiKey", true},
		{"api_key", true},
		{"X-Api-Key", true},
		{"refresh_token", true},
		{"clientSecret", true},
		{"provider", false},
		{"offerId", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSensitiveKey(tt.key), tt.key)
	}
}

func TestLoggerRedactsCredentials(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.WithError(errors.New("boom")).Info("relay started", map[string]interface{}{
		"provider": "openai",
		"apiKey":   "sk-live-123",
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "openai", fields["provider"])
	assert.Equal(t, redacted, fields["apiKey"])
	assert.Equal(t, "boom", fields["error"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	l := New("nonsense", "json")
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewParsesLevelNames(t *testing.T) {
	l := New(" WARN ", "console")
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("Debug"))
}
