package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/golink/logger"
)

type testUser struct{}

func (testUser) GetID() string   { return "u-1" }
func (testUser) GetName() string { return "husserl" }

func newTestLogger(buf *bytes.Buffer, lvl slog.Level) *logger.SlogLogger {
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{AddSource: true, Level: lvl, ReplaceAttr: logger.TruncSourceAttr})
	return logger.New(slog.New(h))
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	m := make(map[string]any)
	require.Nil(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestSlogLoggerLevels(t *testing.T) {
	for _, tc := range []struct {
		name     string
		log      func(l logger.Logger)
		expected string
	}{
		{"Debug", func(l logger.Logger) { l.Debug("msg", nil) }, "DEBUG"},
		{"Info", func(l logger.Logger) { l.Info("msg", nil) }, "INFO"},
		{"Warn", func(l logger.Logger) { l.Warn("msg", nil) }, "WARN"},
		{"Error", func(l logger.Logger) { l.Error("msg", nil) }, "ERROR"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			buf := new(bytes.Buffer)
			l := newTestLogger(buf, slog.LevelDebug)

			// Act
			tc.log(l)

			// Assert
			m := decode(t, buf)
			require.Equal(t, tc.expected, m[slog.LevelKey])
			require.Equal(t, "msg", m[slog.MessageKey])
		})
	}
}

func TestSlogLoggerFiltersLevel(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	l := newTestLogger(buf, slog.LevelWarn)

	// Act
	l.Debug("quiet", nil)
	l.Info("quiet", nil)

	// Assert
	require.Zero(t, buf.Len())
	require.False(t, l.Enabled(slog.LevelInfo))
	require.True(t, l.Enabled(slog.LevelError))
}

func TestSlogLoggerSource(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	l := newTestLogger(buf, slog.LevelDebug)

	// Act
	l.Info("where", nil)

	// Assert
	src, ok := decode(t, buf)[slog.SourceKey].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "logger/logger_test.go", src["file"])
}

func TestSlogLoggerLogContext(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	l := newTestLogger(buf, slog.LevelDebug)
	r := httptest.NewRequest("GET", "https://example.com/go", nil)
	lc := &logger.LogContext{
		Caller:  "cmd/main.go:1",
		Data:    map[string]any{"alias": "go"},
		Error:   errors.New("boom"),
		Request: r,
		User:    testUser{},
	}

	// Act
	l.Error("with context", lc)

	// Assert
	expected := map[string]any{
		"caller":  "cmd/main.go:1",
		"data":    map[string]any{"alias": "go"},
		"error":   "boom",
		"request": map[string]any{"method": "GET", "url": "https://example.com/go"},
		"user":    map[string]any{"id": "u-1", "name": "husserl"},
	}
	require.Equal(t, expected, decode(t, buf)[logger.LogContextKey])
}

func TestNewNilDefaults(t *testing.T) {
	require.NotNil(t, logger.New(nil).Slog())
}

func TestCurrentCaller(t *testing.T) {
	var caller string
	func() { caller = logger.CurrentCaller() }()

	require.Regexp(t, `^logger/logger_test\.go:\d+$`, caller)
}
