package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/http/middleware"
	"github.com/xy-planning-network/golink/http/req"
	"github.com/xy-planning-network/golink/http/resp"
	"github.com/xy-planning-network/golink/redirect"
	"github.com/xy-planning-network/golink/store"
)

type newRedirect struct {
	Alias       string `json:"alias" validate:"required,nospace"`
	Destination string `json:"destination" validate:"required,url"`
}

type updateRedirect struct {
	Destination string `json:"destination" validate:"required,url"`
}

type redirectList struct {
	Redirects []store.Record `json:"redirects"`
}

// Healthz reports golink is serving.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.Json(w, r, resp.Data(map[string]string{"status": "ok"})); err != nil {
		h.fail(w, r, err, "")
	}
}

// List responds with a page of redirects.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var page store.Page
	if err := h.parser.ParseQueryParams(r.URL.Query(), &page); err != nil {
		h.fail(w, r, err, fmt.Sprintf("Unable to convert number: %s", err))
		return
	}

	list, err := h.registry.List(r.Context(), page)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	data := redirectList{Redirects: list.Records}
	if data.Redirects == nil {
		data.Redirects = []store.Record{}
	}

	if err := h.Json(w, r, resp.Data(data), resp.Page(list.Total, list.HasMore)); err != nil {
		h.fail(w, r, err, "")
	}
}

// Create stores a new redirect made by the current user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	var body newRedirect
	if err := h.parseBody(w, r, &body); err != nil {
		h.fail(w, r, err, bodyMsg(err, body.Destination))
		return
	}

	rec, err := h.registry.Create(r.Context(), body.Alias, body.Destination, user)
	switch {
	case errors.Is(err, golink.ErrExists):
		h.fail(w, r, err, fmt.Sprintf("Redirect already exists for `%s`", body.Alias))
		return
	case err != nil:
		h.fail(w, r, err, "")
		return
	}

	if err := h.Json(w, r, resp.Data(rec)); err != nil {
		h.fail(w, r, err, "")
	}
}

// Get responds with the redirect the path names.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ref := refOf(r)

	rec, err := h.registry.Get(r.Context(), ref)
	if err != nil {
		h.fail(w, r, err, notFoundMsg(ref))
		return
	}

	if err := h.Json(w, r, resp.Data(rec)); err != nil {
		h.fail(w, r, err, "")
	}
}

// Update replaces the destination of the redirect the path names.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ref := refOf(r)
	user, _ := middleware.CurrentUser(r.Context())

	var body updateRedirect
	if err := h.parseBody(w, r, &body); err != nil {
		h.fail(w, r, err, bodyMsg(err, body.Destination))
		return
	}

	rec, err := h.registry.Update(r.Context(), ref, body.Destination, user)
	if err != nil {
		h.fail(w, r, err, notFoundMsg(ref))
		return
	}

	if err := h.Json(w, r, resp.Data(rec)); err != nil {
		h.fail(w, r, err, "")
	}
}

// Delete removes the redirect the path names.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ref := refOf(r)

	if _, err := h.registry.Delete(r.Context(), ref); err != nil {
		h.fail(w, r, err, notFoundMsg(ref))
		return
	}

	if err := h.Json(w, r, resp.Data(map[string]bool{"deleted": true})); err != nil {
		h.fail(w, r, err, "")
	}
}

// Clicks responds with how often the redirect the path names was followed.
func (h *Handler) Clicks(w http.ResponseWriter, r *http.Request) {
	ref := refOf(r)

	n, err := h.registry.Clicks(r.Context(), ref)
	if err != nil {
		h.fail(w, r, err, notFoundMsg(ref))
		return
	}

	if err := h.Json(w, r, resp.Data(map[string]int64{"clicks": n})); err != nil {
		h.fail(w, r, err, "")
	}
}

func (h *Handler) parseBody(w http.ResponseWriter, r *http.Request, structPtr any) error {
	return h.parser.ParseBody(http.MaxBytesReader(w, r.Body, MaxBodySize), structPtr)
}

// refOf pulls the alias or public reference out of the path.
func refOf(r *http.Request) string {
	return redirect.Unescape(mux.Vars(r)["ref"])
}

func notFoundMsg(ref string) string {
	return fmt.Sprintf("Redirect not found matching `%s`", ref)
}

// bodyMsg explains to clients why a request body was refused.
func bodyMsg(err error, destination string) string {
	var verrs req.ValidationErrors
	if errors.As(err, &verrs) {
		for _, ve := range verrs {
			if ve.Field == "destination" {
				return fmt.Sprintf("The destination %s is not a valid URL. Destination must be a valid URL", destination)
			}
		}

		return verrs.Error()
	}

	return err.Error()
}
