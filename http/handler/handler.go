package handler

import (
	"net/http"

	"github.com/xy-planning-network/golink/http/middleware"
	"github.com/xy-planning-network/golink/http/req"
	"github.com/xy-planning-network/golink/http/resp"
	"github.com/xy-planning-network/golink/http/router"
	"github.com/xy-planning-network/golink/registry"
)

// MaxBodySize bounds the request bodies the API reads.
const MaxBodySize = 16 << 10

// A Handler responds to golink's HTTP requests.
type Handler struct {
	*resp.Responder
	idem     middleware.IdempotencyCacher
	parser   *req.Parser
	registry *registry.Registry
}

// An Option configures a [*Handler].
type Option func(*Handler)

// WithIdempotencyCacher sets where responses to POST requests
// carrying an idempotency key are kept.
func WithIdempotencyCacher(c middleware.IdempotencyCacher) Option {
	return func(h *Handler) { h.idem = c }
}

// New constructs a [*Handler] serving the redirects in reg.
func New(reg *registry.Registry, d *resp.Responder, opts ...Option) *Handler {
	h := &Handler{
		Responder: d,
		parser:    req.NewParser(),
		registry:  reg,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Register routes the API under the reserved prefix,
// answers /favicon.ico and sends everything else to Redirect.
func (h *Handler) Register(rt *router.Router) {
	api := rt.Subrouter("/" + registry.ReservedPrefix)
	api.Handle(router.Route{Path: "/healthz", Method: http.MethodGet, Handler: h.Healthz})
	api.HandleRoutes(
		[]router.Route{
			{Path: "/api/redirect", Method: http.MethodGet, Handler: h.List},
			{
				Path:        "/api/redirect",
				Method:      http.MethodPost,
				Handler:     h.Create,
				Middlewares: []middleware.Adapter{middleware.Idempotent(h.idem)},
			},
			{Path: "/api/redirect/{ref}", Method: http.MethodGet, Handler: h.Get},
			{Path: "/api/redirect/{ref}", Method: http.MethodPut, Handler: h.Update},
			{Path: "/api/redirect/{ref}", Method: http.MethodDelete, Handler: h.Delete},
			{Path: "/api/redirect/{ref}/clicks", Method: http.MethodGet, Handler: h.Clicks},
		},
		middleware.RequireUser(h.Responder),
	)
	api.HandleNotFound(h.NotFound)

	rt.Handle(router.Route{Path: "/favicon.ico", Method: http.MethodGet, Handler: h.Favicon})
	rt.CatchAll(h.Redirect)
}
