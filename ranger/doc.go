/*
Package ranger initializes and manages golink with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type,
constructed with [New].

[*Ranger.Guide] begins golink's web server.
By default, [*Ranger.Guide] listens on [DefaultPort] (:3000),
assuming an authenticating reverse proxy, such as oauth2-proxy, forwards requests to it.

Stop that web server with [*Ranger.Shutdown]
or send a signal [*Ranger.Guide] listens for.

# Configuration

A developer configures golink through environment variables
and by passing a [RangerOption] to [New], which overrides the equivalent environment variable.

Environment variables ought to be set in a file called ".env"
found at the same directory golink is executed from.

Here are the available environment variables.
  - AUTH_ALLOW_ANONYMOUS: whether API requests the proxy forwarded no user for act as an anonymous user; default: false
  - BASE_URL: the base URL golink runs on; its port is listened on when PORT is unset
  - DATABASE_HOST: the host the database is running on; default: localhost
  - DATABASE_MAX_IDLE_CXNS: the number of idle database connections kept open; default: 1
  - DATABASE_NAME: the name of the database
  - DATABASE_PASSWORD: the password for authenticating a connection to the database
  - DATABASE_PORT: the port the database is listening on; default: 5432
  - DATABASE_SSLMODE: the SSL mode for connecting to the database; default: prefer
  - DATABASE_URL: the fully-qualified connection string for connecting to the database; replaces all other DATABASE_* env vars
  - DATABASE_USER: the user for authenticating a connection to the database
  - ENVIRONMENT: the environment golink is running in; cf. [golink.Environment]
  - FORCE_HTTPS: whether to redirect requests not forwarded over HTTPS; default: false
  - HOST: the host the web server binds to; default: every interface
  - LOG_JSON: whether to log JSON in development; default: false
  - LOG_LEVEL: the level at which to begin logging; default: INFO
  - PORT: the port golink should listen on; default: :3000
  - RATE_LIMIT: the requests per second allowed from one IP address; zero or less disables rate limiting; default: 5
  - RATE_BURST: the burst of requests allowed from one IP address; default: 20
  - REDIS_URL: the Redis server caching redirects, counting clicks and keeping idempotent responses; unset disables Redis
  - REDIS_TTL: how long - as understood by [time.ParseDuration] - a redirect stays cached in Redis; default: 1h
  - SENTRY_DSN: the Sentry project errors are reported to
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s
  - STORE_URL: where redirects are kept; one of memory://, file://<path> or postgres://...; default: memory://
  - UI_URL: the web UI that empty paths and unknown redirects are sent to; unset answers those with 404
*/
package ranger
