/*
Package req parses payloads in an HTTP request.

It supports JSON-encoded bodies and payloads encoded in query parameters.
In both cases, package req expects to parse payloads into a pointer to a struct
whose struct tags match keys in the payload to fields
and set the rules the payload's data must meet.

Errors are translated to golink sentinel errors,
so handlers can map them onto status codes the same way regardless of encoding.
*/
package req
