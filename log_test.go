package golink_test

import (
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/golink"
)

func TestMask(t *testing.T) {
	for _, tc := range []struct {
		name string
		vals url.Values
		key  string
		want url.Values
	}{
		{"zero", url.Values{}, "", url.Values{}},
		{
			"mismatch",
			url.Values{"token": []string{"hunter2"}},
			"tokne",
			url.Values{"token": []string{"hunter2"}},
		},
		{
			"match",
			url.Values{"token": []string{"hunter2"}},
			"token",
			url.Values{"token": []string{golink.LogMaskVal}},
		},
		{
			"squash-multiple",
			url.Values{"token": []string{"hunter2", "hunter3"}},
			"token",
			url.Values{"token": []string{golink.LogMaskVal}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			golink.Mask(tc.vals, tc.key)
			require.Equal(t, tc.want, tc.vals)
		})
	}
}

func TestNewLogLevel(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected slog.Level
	}{
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
	} {
		t.Run(tc.input, func(t *testing.T) {
			require.Equal(t, tc.expected, golink.NewLogLevel(tc.input))
		})
	}
}
