package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/http/middleware"
)

func TestRequestID(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	var seen string

	// Act
	middleware.RequestID(golink.RequestIDKey)(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		val, ok := rx.Context().Value(golink.RequestIDKey).(string)
		require.True(t, ok)
		seen = val
	})).ServeHTTP(w, r)

	// Assert
	require.NotZero(t, seen)
	require.Equal(t, seen, w.Header().Get(middleware.RequestIDHeader))
}

func TestRequestIDNoKey(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	middleware.RequestID("")(NoopHandler()).ServeHTTP(w, r)

	// Assert
	require.Empty(t, w.Header().Get(middleware.RequestIDHeader))
}
