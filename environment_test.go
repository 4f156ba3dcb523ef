package golink_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/golink"
)

func TestEnvironmentValid(t *testing.T) {
	require.Nil(t, golink.Development.Valid())
	require.Nil(t, golink.Production.Valid())
	require.ErrorIs(t, golink.Environment("LOCAL").Valid(), golink.ErrNotValid)
}

func TestEnvVarOr(t *testing.T) {
	// Arrange
	t.Setenv("GOLINK_TEST_BOOL", "TRUE")
	t.Setenv("GOLINK_TEST_DURATION", "3s")
	t.Setenv("GOLINK_TEST_ENV", "staging")
	t.Setenv("GOLINK_TEST_FLOAT", "2.5")
	t.Setenv("GOLINK_TEST_INT", "nope")
	t.Setenv("GOLINK_TEST_LEVEL", "DEBUG")
	t.Setenv("GOLINK_TEST_URL", "not a url")

	// Act + Assert
	require.True(t, golink.EnvVarOrBool("GOLINK_TEST_BOOL", false))
	require.Equal(t, 3*time.Second, golink.EnvVarOrDuration("GOLINK_TEST_DURATION", time.Second))
	require.Equal(t, golink.Staging, golink.EnvVarOrEnv("GOLINK_TEST_ENV", golink.Development))
	require.Equal(t, 2.5, golink.EnvVarOrFloat("GOLINK_TEST_FLOAT", 1))
	require.Equal(t, 7, golink.EnvVarOrInt("GOLINK_TEST_INT", 7))
	require.Equal(t, slog.LevelDebug, golink.EnvVarOrLogLevel("GOLINK_TEST_LEVEL", slog.LevelInfo))
	require.Equal(t, "fallback", golink.EnvVarOrString("GOLINK_TEST_UNSET", "fallback"))
	require.Equal(t, "http://localhost:3000/", golink.EnvVarOrURL("GOLINK_TEST_URL", "http://localhost:3000").String())
}
