package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/http/resp"
	"github.com/xy-planning-network/golink/redirect"
	"github.com/xy-planning-network/golink/registry"
)

// Redirect resolves the request path and redirects to the destination.
//
// An empty path redirects to the UI.
// A path naming no redirect redirects to the UI, searching for the path.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.Err(w, r, fmt.Errorf("%w: method %s", golink.ErrNotValid, r.Method),
			resp.Code(http.StatusMethodNotAllowed),
			resp.Msg("Redirects only answer GET requests."),
		)
		return
	}

	// NOTE: net/http decodes URL.Path; Resolve decodes once itself.
	path := strings.TrimPrefix(r.URL.EscapedPath(), "/")
	if path == "" {
		h.toUI(w, r)
		return
	}

	dest, err := h.registry.Resolve(r.Context(), path)
	switch {
	case errors.Is(err, golink.ErrNotFound):
		h.toUI(w, r, resp.Param("search", redirect.Unescape(path)))

	case err != nil:
		h.fail(w, r, err, "")

	default:
		if err := h.Responder.Redirect(w, r, resp.URL(dest), resp.Code(http.StatusTemporaryRedirect)); err != nil {
			h.fail(w, r, err, "")
		}
	}
}

// toUI redirects to the UI, or responds with 404 when none is configured.
func (h *Handler) toUI(w http.ResponseWriter, r *http.Request, opts ...resp.Fn) {
	opts = append([]resp.Fn{resp.Code(http.StatusTemporaryRedirect)}, opts...)

	err := h.Responder.Redirect(w, r, opts...)
	switch {
	case errors.Is(err, golink.ErrMissingData):
		h.Err(w, r, err, resp.Code(http.StatusNotFound), resp.Msg("Redirect not found matching `%s`", redirect.Unescape(r.URL.EscapedPath())))
	case err != nil:
		h.fail(w, r, err, "")
	}
}

// Favicon answers browsers asking for an icon.
func (h *Handler) Favicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}

// NotFound answers requests under the reserved prefix no endpoint matches.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	tail := strings.TrimPrefix(r.URL.EscapedPath(), "/"+registry.ReservedPrefix)
	tail = strings.TrimPrefix(tail, "/")

	h.Err(w, r, fmt.Errorf("%w: endpoint %q", golink.ErrNotFound, tail),
		resp.Code(http.StatusNotFound),
		resp.Msg("Endpoint '%s' was not found.", redirect.Unescape(tail)),
	)
}
