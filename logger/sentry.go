package logger

import (
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/xy-planning-network/golink"
)

// A SentryLogger forwards every message to a Logger
// and captures the errors of WARN and ERROR messages in Sentry.
type SentryLogger struct {
	l Logger
}

// NewSentryLogger initializes the Sentry client for dsn and decorates l.
// If Sentry cannot be initialized, the error is logged and l is returned.
func NewSentryLogger(env golink.Environment, l Logger, dsn string) Logger {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:          dsn,
		Environment:  env.String(),
		IgnoreErrors: []string{"write: broken pipe"},
	})
	if err != nil {
		l.Error(fmt.Sprintf("unable to init Sentry: %s", err), &LogContext{Error: err})
		return l
	}

	return newSentryLogger(l)
}

func newSentryLogger(l Logger) *SentryLogger {
	if sl, ok := l.(*SlogLogger); ok {
		l = sl.AddSkip(1)
	}

	return &SentryLogger{l: l}
}

// Debug writes a debug log.
func (sl *SentryLogger) Debug(msg string, ctx *LogContext) { sl.l.Debug(msg, ctx) }

// Info writes an info log.
func (sl *SentryLogger) Info(msg string, ctx *LogContext) { sl.l.Info(msg, ctx) }

// Warn writes a warning log and sends it to Sentry.
func (sl *SentryLogger) Warn(msg string, ctx *LogContext) {
	if !sl.l.Enabled(slog.LevelWarn) {
		return
	}

	sl.l.Warn(msg, ctx)
	sl.send(sentry.LevelWarning, ctx)
}

// Error writes an error log and sends it to Sentry.
func (sl *SentryLogger) Error(msg string, ctx *LogContext) {
	if !sl.l.Enabled(slog.LevelError) {
		return
	}

	sl.l.Error(msg, ctx)
	sl.send(sentry.LevelError, ctx)
}

// Enabled reports whether the decorated Logger emits messages at level.
func (sl *SentryLogger) Enabled(level slog.Level) bool { return sl.l.Enabled(level) }

// send ships ctx.Error to Sentry along with the rest of ctx.
func (sl *SentryLogger) send(level sentry.Level, ctx *LogContext) {
	if ctx == nil || ctx.Error == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		if ctx.User != nil {
			scope.SetUser(sentry.User{
				ID:       ctx.User.GetID(),
				Username: ctx.User.GetName(),
			})
		}

		if ctx.Request != nil {
			scope.SetRequest(ctx.Request)
		}

		if ctx.Data != nil {
			scope.SetContext("data", ctx.Data)
		}

		scope.SetLevel(level)
		sentry.CaptureException(ctx.Error)
	})
}
