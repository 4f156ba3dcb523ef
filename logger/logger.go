package logger

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// LogContextKey is the attribute key a [*LogContext] is logged under.
const LogContextKey = "log_context"

// knownFrames skips runtime.Callers, SlogLogger.log and the level method.
const knownFrames = 3

// The Logger interface defines the levels logging can occur at.
type Logger interface {
	Debug(msg string, ctx *LogContext)
	Error(msg string, ctx *LogContext)
	Info(msg string, ctx *LogContext)
	Warn(msg string, ctx *LogContext)

	// Enabled reports whether the Logger emits messages at level.
	Enabled(level slog.Level) bool
}

// SlogLogger implements [Logger] with a [*log/slog.Logger].
type SlogLogger struct {
	l    *slog.Logger
	skip int
}

// New constructs a [*SlogLogger] writing with l.
// A nil l defaults to [log/slog.Default].
func New(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}

	return &SlogLogger{l: l}
}

// AddSkip returns a copy of sl scrolling back i more frames
// when ascertaining the call site.
func (sl *SlogLogger) AddSkip(i int) *SlogLogger {
	cp := *sl
	cp.skip += i
	return &cp
}

// Debug writes a debug log.
func (sl *SlogLogger) Debug(msg string, ctx *LogContext) { sl.log(slog.LevelDebug, msg, ctx) }

// Error writes an error log.
func (sl *SlogLogger) Error(msg string, ctx *LogContext) { sl.log(slog.LevelError, msg, ctx) }

// Info writes an info log.
func (sl *SlogLogger) Info(msg string, ctx *LogContext) { sl.log(slog.LevelInfo, msg, ctx) }

// Warn writes a warning log.
func (sl *SlogLogger) Warn(msg string, ctx *LogContext) { sl.log(slog.LevelWarn, msg, ctx) }

// Enabled reports whether the underlying handler handles level.
func (sl *SlogLogger) Enabled(level slog.Level) bool {
	return sl.l.Enabled(context.Background(), level)
}

// Slog exposes the [*log/slog.Logger] sl writes with.
func (sl *SlogLogger) Slog() *slog.Logger { return sl.l }

func (sl *SlogLogger) log(level slog.Level, msg string, ctx *LogContext) {
	if !sl.Enabled(level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(knownFrames+sl.skip, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	if ctx != nil {
		r.AddAttrs(slog.Any(LogContextKey, ctx))
	}

	_ = sl.l.Handler().Handle(context.Background(), r)
}
