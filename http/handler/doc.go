/*
Package handler serves golink over HTTP.

Every path outside the reserved prefix is a redirect request:
its first word names a redirect and the remaining words fill its template.
The reserved prefix holds the JSON API for managing redirects and a health check.
*/
package handler
