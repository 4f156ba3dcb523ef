package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/logger"
)

func TestNewSentryLoggerBadDSN(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	l := newTestLogger(buf, slog.LevelDebug)

	// Act
	actual := logger.NewSentryLogger(golink.Testing, l, "not-a-dsn")

	// Assert
	require.Equal(t, l, actual)
	require.Contains(t, buf.String(), "unable to init Sentry")
}

func TestSentryLoggerForwards(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	l := logger.NewSentryLogger(golink.Testing, newTestLogger(buf, slog.LevelDebug), "https://key@sentry.example.com/1")

	// Act
	l.Warn("warned", &logger.LogContext{Error: errors.New("boom")})

	// Assert
	_, ok := l.(*logger.SentryLogger)
	require.True(t, ok)
	m := decode(t, buf)
	require.Equal(t, "warned", m[slog.MessageKey])
	require.Equal(t, "logger/sentry_test.go", m[slog.SourceKey].(map[string]any)["file"])
}
