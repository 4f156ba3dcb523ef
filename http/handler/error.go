package handler

import (
	"errors"
	"net/http"

	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/http/resp"
)

// statusOf maps err onto the status code a client sees.
func statusOf(err error) int {
	switch {
	case errors.Is(err, golink.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, golink.ErrExists):
		return http.StatusConflict
	case errors.Is(err, golink.ErrNotValid),
		errors.Is(err, golink.ErrBadFormat),
		errors.Is(err, golink.ErrMissingData):
		return http.StatusBadRequest
	case errors.Is(err, golink.ErrNotImplemented):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// fail responds with err, mapped by statusOf.
// msg, if not empty, is sent to clients in place of err's message on 4xx responses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	code := statusOf(err)
	opts := []resp.Fn{resp.Code(code)}
	if msg != "" && code < http.StatusInternalServerError {
		opts = append(opts, resp.Msg("%s", msg))
	}

	h.Err(w, r, err, opts...)
}
