package logger

import (
	"log/slog"

	"github.com/fatih/color"
)

// TruncSourceAttr shortens the file of a [log/slog.Source] to its parent directory and base name.
//
// TruncSourceAttr is for use as or in a [log/slog.HandlerOptions] ReplaceAttr function.
func TruncSourceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}

	src, ok := a.Value.Any().(*slog.Source)
	if !ok || src == nil {
		return a
	}

	cp := *src
	cp.File = immediateFilepath(cp.File)
	cp.Function = ""
	a.Value = slog.AnyValue(&cp)

	return a
}

// ColorizeLevel paints the level of a record according to its severity.
func ColorizeLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	lvl, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	var paint func(string, ...any) string
	switch {
	case lvl >= slog.LevelError:
		paint = color.RedString
	case lvl >= slog.LevelWarn:
		paint = color.YellowString
	case lvl >= slog.LevelInfo:
		paint = color.BlueString
	default:
		paint = color.WhiteString
	}

	return slog.String(a.Key, paint("%s", lvl.String()))
}

// DeleteLevelAttr drops the level of a top-level record.
func DeleteLevelAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		return slog.Attr{}
	}

	return a
}

// DeleteMessageAttr drops the message of a top-level record.
func DeleteMessageAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.MessageKey {
		return slog.Attr{}
	}

	return a
}
