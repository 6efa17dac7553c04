package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMessage = "test message"

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestNewWithWriterLevels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{name: "debug", level: "debug", expected: zerolog.DebugLevel},
		{name: "warn", level: "warn", expected: zerolog.WarnLevel},
		{name: "error", level: "error", expected: zerolog.ErrorLevel},
		{name: "invalid_defaults_to_info", level: "loud", expected: zerolog.InfoLevel},
		{name: "empty_defaults_to_info", level: "", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewWithWriter(&bytes.Buffer{}, tt.level)
			assert.Equal(t, tt.expected, l.zlog.GetLevel())
		})
	}
}

func TestZeroLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "debug")

	l.Info().Str("method", "GET").Int("status", 200).Dur("elapsed", 15*time.Millisecond).Msg(testMessage)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, testMessage, entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.EqualValues(t, 200, entry["status"])
	assert.Contains(t, entry, "time")
}

func TestZeroLoggerLevelsFilterOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")

	l.Debug().Msg("dropped")
	l.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("kept")
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	l.Error().Err(errors.New("boom")).Msg("failed")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "boom", entry["error"])
}

func TestZeroLoggerMasksSensitiveStrings(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")

	l.Info().Str("authorization", "Bearer abc").Str("email", "a@b.co").Msg(testMessage)

	entry := decodeLine(t, &buf)
	assert.Equal(t, DefaultMaskValue, entry["authorization"])
	assert.Equal(t, "a@b.co", entry["email"])
}

func TestZeroLoggerMasksJSONBytes(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")

	l.Info().Bytes("body", []byte(`{"email":"a@b.co","password":"hunter2"}`)).Msg(testMessage)

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "a@b.co")
}

func TestZeroLoggerWithFieldsFiltersValues(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")

	scoped := l.WithFields(map[string]any{"token": "abc", "component": "session"})
	scoped.Info().Msg(testMessage)

	entry := decodeLine(t, &buf)
	assert.Equal(t, DefaultMaskValue, entry["token"])
	assert.Equal(t, "session", entry["component"])
}

func TestZeroLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")

	t.Run("non_context_returns_self", func(t *testing.T) {
		assert.Same(t, l, l.WithContext("nope"))
	})

	t.Run("context_without_logger_returns_self", func(t *testing.T) {
		assert.Same(t, l, l.WithContext(context.Background()))
	})

	t.Run("context_logger_is_used", func(t *testing.T) {
		var ctxBuf bytes.Buffer
		zl := zerolog.New(&ctxBuf).With().Str("request_id", "r-1").Logger()
		ctx := zl.WithContext(context.Background())

		l.WithContext(ctx).Info().Str("password", "x").Msg(testMessage)

		out := ctxBuf.String()
		assert.Contains(t, out, "r-1")
		assert.NotContains(t, out, `"password":"x"`)
	})
}

func TestNewWithFilterPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithFilter(&buf, "info", true, nil)

	l.Info().Msg(testMessage)

	out := buf.String()
	assert.Contains(t, out, testMessage)
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() {
		l.Info().Str("k", "v").Msg(testMessage)
		l.WithFields(map[string]any{"a": 1}).Error().Msgf("%d", 1)
	})
	assert.NotNil(t, l.Filter())
}
