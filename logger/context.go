package logger

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"runtime"
)

var _ slog.LogValuer = LogContext{}

const callerTmpl = "%s:%d"

// LogUser is the interface exposing attributes of a user to a LogContext.
type LogUser interface {
	// GetID retrieves the identifier the authenticating proxy assigned the user.
	GetID() string

	// GetName retrieves the display name of the user.
	GetName() string
}

// A LogContext provides additional information
// for a [Logger] method that cannot be tersely captured in the message itself.
type LogContext struct {
	// Caller names the code that spawned the goroutine logging.
	Caller string

	// Data is any information pertinent at the time of the logging event.
	Data map[string]any

	// Error is the error that may or may not have instigated a logging event.
	Error error

	// Request is the *http.Request that may or may not have been open during the logging event.
	Request *http.Request

	// User is the user whose request was being served during the logging event.
	User LogUser
}

// LogValue groups the non-zero fields of lc.
//
// LogValue implements [log/slog.LogValuer].
func (lc LogContext) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 5)
	if lc.Caller != "" {
		attrs = append(attrs, slog.String("caller", lc.Caller))
	}

	if len(lc.Data) > 0 {
		data := make([]slog.Attr, 0, len(lc.Data))
		for k, v := range lc.Data {
			data = append(data, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Attr{Key: "data", Value: slog.GroupValue(data...)})
	}

	if lc.Error != nil {
		attrs = append(attrs, slog.String("error", lc.Error.Error()))
	}

	if lc.Request != nil {
		attrs = append(attrs, slog.Group("request",
			slog.String("method", lc.Request.Method),
			slog.String("url", lc.Request.URL.String()),
		))
	}

	if lc.User != nil {
		user := make([]slog.Attr, 0, 2)
		if id := lc.User.GetID(); id != "" {
			user = append(user, slog.String("id", id))
		}
		if name := lc.User.GetName(); name != "" {
			user = append(user, slog.String("name", name))
		}
		if len(user) > 0 {
			attrs = append(attrs, slog.Attr{Key: "user", Value: slog.GroupValue(user...)})
		}
	}

	return slog.GroupValue(attrs...)
}

// CurrentCaller retrieves the caller of the function calling CurrentCaller,
// formatted for use as LogContext.Caller.
//
//	myFunc() {		<- returns this caller
//		go func() {
//			CurrentCaller()
//		}()
//	}
func CurrentCaller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf(callerTmpl, immediateFilepath(file), line)
}

// immediateFilepath trims file down to its parent directory and base name.
func immediateFilepath(file string) string {
	dir, base := filepath.Split(file)
	return filepath.Join(filepath.Base(dir), base)
}
