/*
Package middleware defines what a middleware is in golink and a set of basic middlewares.

The available middlewares are:
  - CORS
  - ForceHTTPS
  - Idempotent
  - InjectIPAddress
  - LogRequest
  - ProxyUser
  - RateLimit
  - ReportPanic
  - RequestID
  - RequireUser

ranger assembles them into the chain every request passes through;
Idempotent and RequireUser wrap individual API routes.
*/
package middleware
