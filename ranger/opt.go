package ranger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/logger"
	"github.com/xy-planning-network/golink/store"
)

// A RangerOption configures a *Ranger before New fills in the defaults it leaves unset.
// Options override the equivalent env vars.
type RangerOption func(rng *Ranger) error

// WithContext exposes the provided context.Context to golink.
// Requests handled by the web server derive from it.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) error {
		if ctx == nil {
			return fmt.Errorf("%w: nil context", golink.ErrMissingData)
		}

		rng.ctx = ctx
		return nil
	}
}

// WithEnv casts the provided string into a valid Environment.
// An empty string leaves the ENVIRONMENT env var in charge.
func WithEnv(env string) RangerOption {
	return func(rng *Ranger) error {
		if env == "" {
			return nil
		}

		e := golink.Environment(env)
		if err := e.Valid(); err != nil {
			return fmt.Errorf("%w: environment %q", err, env)
		}

		rng.env = e
		return nil
	}
}

// WithLogger exposes the provided logger.Logger to golink.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) error {
		rng.l = l
		return nil
	}
}

// WithHTTPLogger sets the *slog.Logger every request is logged to.
func WithHTTPLogger(l *slog.Logger) RangerOption {
	return func(rng *Ranger) error {
		rng.httpLog = l
		return nil
	}
}

// WithLogOutput sets where the default loggers write.
func WithLogOutput(w io.Writer) RangerOption {
	return func(rng *Ranger) error {
		rng.logOut = w
		return nil
	}
}

// WithPort sets the port the web server listens on in place of PORT.
func WithPort(port string) RangerOption {
	return func(rng *Ranger) error {
		rng.port = port
		return nil
	}
}

// WithServer exposes the *http.Server to golink.
// Its Handler is replaced by the router.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) error {
		rng.srv = s
		return nil
	}
}

// WithStore sets the store.Store redirects are kept in,
// skipping STORE_URL.
func WithStore(s store.Store) RangerOption {
	return func(rng *Ranger) error {
		rng.store = s
		return nil
	}
}

// WithStoreURL selects the store.Store in place of STORE_URL.
// An empty string leaves STORE_URL in charge.
func WithStoreURL(raw string) RangerOption {
	return func(rng *Ranger) error {
		rng.storeURL = raw
		return nil
	}
}
