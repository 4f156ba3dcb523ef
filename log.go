package golink

import (
	"log/slog"
	"net/url"
)

const (
	LogKindKey = "kind"
	LogMaskVal = "xxxxxx"
)

var (
	AppLogKind  = slog.StringValue("app")
	HTTPLogKind = slog.StringValue("http")

	// MaskedLogValue is a convenience [log/slog.Value]
	// to be used in implementations of [log/slog.LogValuer]
	// to hide sensitive data from log messages.
	MaskedLogValue = slog.StringValue(LogMaskVal)
)

// Mask replaces every value paired to key in vals with LogMaskVal.
func Mask(vals url.Values, key string) {
	if _, ok := vals[key]; ok {
		vals[key] = []string{LogMaskVal}
	}
}

// NewLogLevel translates val into a [log/slog.Level].
// Unknown values translate into [log/slog.LevelInfo].
func NewLogLevel(val string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(val)); err != nil {
		return slog.LevelInfo
	}

	return lvl
}
