package ranger

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"

	"github.com/lmittmann/tint"
	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/http/middleware"
	"github.com/xy-planning-network/golink/http/resp"
	"github.com/xy-planning-network/golink/http/router"
	"github.com/xy-planning-network/golink/logger"
)

var defaultBaseURL = "http://" + DefaultHost + DefaultPort

// defaultAppLogger constructs a [logger.Logger] configured for use in the application.
func defaultAppLogger(env golink.Environment, output io.Writer) logger.Logger {
	slogger := newSlogger(golink.AppLogKind, env, output)
	var l logger.Logger = logger.New(slogger)
	l.Debug("setting up app logger", nil)
	if dsn := os.Getenv(sentryDsnEnvVar); dsn != "" {
		l = logger.NewSentryLogger(env, l, dsn)
		l.Debug("using SentryLogger for app logger", nil)
	}

	slog.SetDefault(slogger)

	return l
}

// defaultHTTPLogger constructs a [*log/slog.Logger] for use in HTTP router logging.
func defaultHTTPLogger(env golink.Environment, output io.Writer) *slog.Logger {
	sl := newSlogger(golink.HTTPLogKind, env, output)
	sl.Debug("setting up HTTP router logger")

	return sl
}

// newSlogger toggles constructing the specific [*log/slog.Logger]
// from the given parameters.
func newSlogger(kind slog.Value, env golink.Environment, out io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(golink.EnvVarOrLogLevel(logLevelEnvVar, slog.LevelInfo))

	useJSON := !env.IsDevelopment() || golink.EnvVarOrBool(logJSONEnvVar, defaultLogJSON)
	isHTTP := kind.String() == golink.HTTPLogKind.String()

	var handler slog.Handler
	switch {
	case useJSON && !isHTTP:
		opts := &slog.HandlerOptions{
			AddSource:   true,
			Level:       lvl,
			ReplaceAttr: logger.TruncSourceAttr,
		}

		handler = slog.NewJSONHandler(out, opts)

	case !useJSON && !isHTTP:
		opts := &tint.Options{
			AddSource:  true,
			Level:      lvl,
			TimeFormat: "2006-01-02 15:04:05.000",
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a = logger.ColorizeLevel(groups, a)
				return logger.TruncSourceAttr(groups, a)
			},
		}
		handler = tint.NewHandler(out, opts)

	case useJSON:
		opts := &slog.HandlerOptions{
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a = logger.DeleteLevelAttr(groups, a)
				return logger.DeleteMessageAttr(groups, a)
			},
		}
		handler = slog.NewJSONHandler(out, opts)

	default:
		opts := &slog.HandlerOptions{
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a = logger.DeleteLevelAttr(groups, a)
				return logger.DeleteMessageAttr(groups, a)
			},
		}
		handler = slog.NewTextHandler(out, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		{Key: golink.LogKindKey, Value: kind},
	})

	return slog.New(handler)
}

// defaultResponder configures the [*resp.Responder] to be used by http.Handlers.
//
// Without a UI, redirects to the UI answer 404 instead.
func defaultResponder(l logger.Logger, ui *url.URL) *resp.Responder {
	args := []resp.ResponderOptFn{resp.WithLogger(l)}
	if ui != nil {
		args = append(args, resp.WithRootURL(ui.String()))
	}

	return resp.NewResponder(args...)
}

// defaultRouter constructs a [*router.Router] to be used by the web server,
// applying mws to every request.
func defaultRouter(env golink.Environment, logReq middleware.Adapter, mws []middleware.Adapter) *router.Router {
	route := router.New(env, logReq)
	route.OnEveryRequest(mws...)

	return route
}

// defaultMiddlewares lists the [middleware.Adapter] applied to every request,
// as configured by the request env vars.
//
// logReq follows the adapters identifying the request so its record includes them.
func defaultMiddlewares(env golink.Environment, logReq middleware.Adapter) []middleware.Adapter {
	mws := []middleware.Adapter{
		middleware.RequestID(golink.RequestIDKey),
		middleware.InjectIPAddress(),
		logReq,
	}

	if limit := golink.EnvVarOrFloat(rateLimitEnvVar, middleware.DefaultRateLimit); limit > 0 {
		burst := golink.EnvVarOrInt(rateBurstEnvVar, middleware.DefaultRateBurst)
		mws = append(mws, middleware.RateLimit(middleware.NewVisitors(limit, burst)))
	}

	if golink.EnvVarOrBool(forceHTTPSEnvVar, false) {
		mws = append(mws, middleware.ForceHTTPS(env))
	}

	return append(mws, middleware.ProxyUser(golink.EnvVarOrBool(allowAnonymousEnvVar, false)))
}

// defaultServer constructs a default [*http.Server] listening on port.
func defaultServer(ctx context.Context, port string) *http.Server {
	if port == "" {
		port = DefaultPort
	}

	if port[0] != ':' {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         golink.EnvVarOrString(hostEnvVar, "") + port,
		IdleTimeout:  golink.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  golink.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: golink.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}
