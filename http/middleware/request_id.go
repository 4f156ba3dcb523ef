package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/golink"
)

// RequestIDHeader carries the request ID back to the client.
const RequestIDHeader = "X-Request-Id"

// RequestID adds a uuid to the request context under key
// and echoes it in the RequestIDHeader response header.
//
// If key is empty, then NoopAdapter returns and this middleware does nothing.
func RequestID(key golink.Key) Adapter {
	if key == "" {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set(RequestIDHeader, id)

			ctx := context.WithValue(r.Context(), key, id)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
