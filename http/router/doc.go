/*
Package router routes golink's HTTP requests.

[Router] is a thin wrapper around [mux.Router].
A path and an HTTP method comprise a [Route].
An [http.HandlerFunc] is called when a request matches a Route.
Before a request gets to a handler, though,
middlewares registered through OnEveryRequest are called,
followed by any middlewares added to the Route, in the order they appear.

golink registers its API under a Subrouter for the reserved prefix
and sends every other request to the CatchAll handler, which redirects.
*/
package router
