package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/http/middleware"
)

// A Route maps a path and HTTP method to an [http.HandlerFunc].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
type Route struct {
	Path        string
	Method      string
	Handler     http.HandlerFunc
	Middlewares []middleware.Adapter
}

// Router routes requests to the golink API and the redirect catch-all.
type Router struct {
	Env           golink.Environment
	everyReqStack []middleware.Adapter
	logReq        middleware.Adapter
	r             *mux.Router
}

// New constructs a [*Router] for the given environment.
//
// Paths are matched as sent, percent-encoding included, and never cleaned,
// so redirect arguments reach handlers intact.
func New(env golink.Environment, logReq middleware.Adapter) *Router {
	if logReq == nil {
		logReq = middleware.NoopAdapter
	}

	r := mux.NewRouter().SkipClean(true).UseEncodedPath()
	return &Router{logReq: logReq, Env: env, r: r}
}

// CatchAll sets up a handler for every request no other Route matches.
func (r *Router) CatchAll(handler http.HandlerFunc) {
	r.r.PathPrefix("/").Handler(r.chain(handler))
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleNotFound sets the provided [http.HandlerFunc] as the default function
// for when no other registered Route is matched.
func (r *Router) HandleNotFound(handler http.HandlerFunc) {
	r.r.NotFoundHandler = middleware.Chain(
		handler,
		r.logReq,
		middleware.ReportPanic(r.Env),
	)
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
// Any [middleware.Adapter] already assigned to a Route is appended to middlewares,
// so are called after the default set.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := append(append([]middleware.Adapter{}, middlewares...), route.Middlewares...)
		r.r.Handle(route.Path, r.chain(route.Handler, mws...)).Methods(route.Method)
	}
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// Subrouter constructs a [Router] that handles requests to endpoints matching the prefix.
//
// e.g., r.Subrouter("/_golink") handles requests to endpoints like /_golink/healthz
func (r *Router) Subrouter(prefix string) *Router {
	return &Router{
		Env:           r.Env,
		r:             r.r.PathPrefix(prefix).Subrouter(),
		logReq:        r.logReq,
		everyReqStack: append([]middleware.Adapter{}, r.everyReqStack...),
	}
}

// chain wraps handler in the every request stack, then mws, then panic reporting.
func (r *Router) chain(handler http.Handler, mws ...middleware.Adapter) http.Handler {
	stack := append(append([]middleware.Adapter{}, r.everyReqStack...), mws...)
	stack = append(stack, middleware.ReportPanic(r.Env))

	return middleware.Chain(handler, stack...)
}
