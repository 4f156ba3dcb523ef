package ranger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/http/handler"
	"github.com/xy-planning-network/golink/http/middleware"
	"github.com/xy-planning-network/golink/http/resp"
	"github.com/xy-planning-network/golink/http/router"
	"github.com/xy-planning-network/golink/logger"
	"github.com/xy-planning-network/golink/registry"
	"github.com/xy-planning-network/golink/store"
)

const shutdownTimeout = 5 * time.Second

// A Ranger manages and exposes all components of golink to one another.
type Ranger struct {
	*resp.Responder
	*router.Router

	cancel   context.CancelFunc
	closers  []func() error
	ctx      context.Context
	done     context.Context
	env      golink.Environment
	httpLog  *slog.Logger
	l        logger.Logger
	logOut   io.Writer
	port     string
	registry *registry.Registry
	srv      *http.Server
	store    store.Store
	storeURL string
	uiURL    *url.URL
	url      *url.URL

	shutdown    sync.Once
	shutdownErr error
}

// New constructs a Ranger from the provided options,
// filling in whatever they leave unset from env vars.
func New(opts ...RangerOption) (*Ranger, error) {
	r := &Ranger{ctx: context.Background(), logOut: os.Stdout}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("%w: %s", golink.ErrBadConfig, err)
		}
	}

	if r.env == "" {
		r.env = golink.EnvVarOrEnv(environmentEnvVar, golink.Development)
	}

	if r.l == nil {
		r.l = defaultAppLogger(r.env, r.logOut)
	}
	r.l.Debug(fmt.Sprintf("using env %s", r.env), nil)

	if r.httpLog == nil {
		r.httpLog = defaultHTTPLogger(r.env, r.logOut)
	}

	r.url = golink.EnvVarOrURL(BaseURLEnvVar, defaultBaseURL)

	var err error
	if r.uiURL, err = uiURL(); err != nil {
		return nil, err
	}

	if err := r.setupStore(); err != nil {
		r.close()
		return nil, err
	}

	r.done, r.cancel = context.WithCancel(r.ctx)

	if r.srv == nil {
		r.srv = defaultServer(r.ctx, r.serverPort())
	}

	var origin string
	if r.uiURL != nil {
		origin = r.uiURL.Scheme + "://" + r.uiURL.Host
	}
	r.srv.Handler = middleware.CORS(origin)(r.Router)

	return r, nil
}

// setupStore opens the store.Store, decorates it with Redis when REDIS_URL is set
// and registers the HTTP handlers serving it.
func (r *Ranger) setupStore() error {
	if r.store == nil {
		raw := r.storeURL
		if raw == "" {
			raw = golink.EnvVarOrString(StoreURLEnvVar, DefaultStoreURL)
		}

		s, closer, err := openStore(r.env, raw)
		if err != nil {
			return err
		}

		r.store = s
		r.closers = append(r.closers, closer)
	}

	clicks := clicksFor(r.store)
	var idem middleware.IdempotencyCacher = middleware.NewIdemResMap()

	rs, err := connectRedis(r.ctx, os.Getenv(redisURLEnvVar), r.store, r.l)
	if err != nil {
		return err
	}

	if rs != nil {
		r.store, clicks, idem = rs.store, rs.clicks, rs.idem
		r.closers = append(r.closers, rs.client.Close)
		r.l.Debug("using redis", nil)
	}

	r.l.Debug(fmt.Sprintf("using store %T", r.store), nil)
	r.l.Debug(fmt.Sprintf("counting clicks with %T", clicks), nil)

	r.registry = registry.New(r.store, registry.WithClicks(clicks), registry.WithLogger(r.l))
	r.Responder = defaultResponder(r.l, r.uiURL)
	logReq := middleware.LogRequest(r.httpLog)
	r.Router = defaultRouter(r.env, logReq, defaultMiddlewares(r.env, logReq))

	handler.New(r.registry, r.Responder, handler.WithIdempotencyCacher(idem)).Register(r.Router)

	return nil
}

func (r *Ranger) EmitEnv() golink.Environment      { return r.env }
func (r *Ranger) EmitLogger() logger.Logger        { return r.l }
func (r *Ranger) EmitRegistry() *registry.Registry { return r.registry }
func (r *Ranger) EmitServer() *http.Server         { return r.srv }
func (r *Ranger) EmitStore() store.Store           { return r.store }

// Guide begins the web server.
//
// These, and (*Ranger).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (r *Ranger) Guide() error {
	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			r.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			r.cancel()
		case <-r.done.Done():
		}
	}()

	listenErr := make(chan error, 1)
	go func() {
		r.l.Info(fmt.Sprintf("running web server at %s", r.srv.Addr), nil)
		if err := r.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("could not listen: %w", err)
			r.l.Error(err.Error(), nil)
			listenErr <- err
			r.cancel()
		}
	}()

	<-r.done.Done()

	err := r.Shutdown()
	select {
	case lerr := <-listenErr:
		return errors.Join(lerr, err)
	default:
		return err
	}
}

// Shutdown shutdowns the web server and releases the store's connections.
// Calls after the first return the first's result.
func (r *Ranger) Shutdown() error {
	r.shutdown.Do(func() {
		r.cancel()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		r.l.Info("shutting down web server", nil)
		err := r.srv.Shutdown(shutdownCtx)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}

		if err != nil {
			err = fmt.Errorf("could not shutdown: %w", err)
		}

		r.shutdownErr = errors.Join(err, r.close())
		if r.shutdownErr == nil {
			r.l.Info("web server shutdown successfully", nil)
		}
	})

	return r.shutdownErr
}

// close releases every connection opened by New.
func (r *Ranger) close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil

	return errors.Join(errs...)
}

// serverPort chooses the port from WithPort, PORT or BASE_URL, in that order.
func (r *Ranger) serverPort() string {
	if r.port != "" {
		return r.port
	}

	if port := os.Getenv(portEnvVar); port != "" {
		return port
	}

	if r.url != nil && r.url.Port() != "" {
		return r.url.Port()
	}

	return DefaultPort
}

// uiURL reads UI_URL, which may be unset.
func uiURL() (*url.URL, error) {
	raw := os.Getenv(UIURLEnvVar)
	if raw == "" {
		return nil, nil
	}

	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %s: %q is not an absolute URL", golink.ErrBadConfig, UIURLEnvVar, raw)
	}

	return u, nil
}
