package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/cache"
	"github.com/xy-planning-network/golink/logger"
	"github.com/xy-planning-network/golink/redirect"
	"github.com/xy-planning-network/golink/store"
)

// DefaultExpiration is how long a compiled template is kept without being used.
const DefaultExpiration = 30 * time.Minute

// An entry is a compiled template and the destination it was compiled from.
type entry struct {
	compiled    *redirect.Compiled
	destination string
}

// A Registry resolves paths against the redirects in a store.Store,
// keeping their compiled templates in process.
type Registry struct {
	clicks     cache.ClickCounter
	compiled   *gocache.Cache
	expiration time.Duration
	logger     logger.Logger
	store      store.Store
}

// An Option configures a [*Registry].
type Option func(*Registry)

// WithClicks sets the counter each resolved redirect is tallied in.
func WithClicks(c cache.ClickCounter) Option {
	return func(r *Registry) { r.clicks = c }
}

// WithExpiration sets how long an unused compiled template is kept.
func WithExpiration(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.expiration = d
		}
	}
}

// WithLogger sets the logger compiler warnings and click failures are written to.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New constructs a [*Registry] over s.
func New(s store.Store, opts ...Option) *Registry {
	r := &Registry{
		expiration: DefaultExpiration,
		logger:     logger.New(nil),
		store:      s,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.compiled = gocache.New(r.expiration, 2*r.expiration)

	return r
}

// Resolve finds the redirect named by the first word of path
// and evaluates the remaining words against it.
//
// path may be percent-encoded and begin with a slash.
// If no redirect matches, Resolve returns an error wrapping golink.ErrNotFound.
func (r *Registry) Resolve(ctx context.Context, path string) (string, error) {
	path = strings.TrimPrefix(path, "/")

	key, _, _ := strings.Cut(redirect.Unescape(path), " ")
	if key == "" {
		return "", fmt.Errorf("%w: empty alias", golink.ErrNotFound)
	}

	compiled, rec, err := r.Lookup(ctx, key)
	if err != nil {
		return "", err
	}

	r.click(ctx, rec)

	return compiled.Destination(path), nil
}

// Lookup retrieves the redirect whose alias or public ref is key and its compiled template.
// Aliases are matched case-insensitively.
func (r *Registry) Lookup(ctx context.Context, key string) (*redirect.Compiled, store.Record, error) {
	rec, err := r.get(ctx, key)
	if err != nil {
		return nil, store.Record{}, err
	}

	return r.compile(rec), rec, nil
}

// Get retrieves the redirect whose alias or public ref is ref.
func (r *Registry) Get(ctx context.Context, ref string) (store.Record, error) {
	return r.get(ctx, ref)
}

// List retrieves a page of redirects.
func (r *Registry) List(ctx context.Context, page store.Page) (store.List, error) {
	return r.store.List(ctx, page)
}

// Create normalizes alias and stores a new redirect to destination.
func (r *Registry) Create(ctx context.Context, alias, destination string, by store.User) (store.Record, error) {
	alias, err := NormalizeAlias(alias)
	if err != nil {
		return store.Record{}, err
	}

	rec, err := r.store.Create(ctx, alias, destination, by)
	if err != nil {
		return store.Record{}, err
	}

	r.compile(rec)
	return rec, nil
}

// Update replaces the destination of the redirect ref names.
func (r *Registry) Update(ctx context.Context, ref, destination string, by store.User) (store.Record, error) {
	current, err := r.get(ctx, ref)
	if err != nil {
		return store.Record{}, err
	}

	rec, err := r.store.Update(ctx, current.PublicRef, destination, by)
	if err != nil {
		return store.Record{}, err
	}

	r.compile(rec)
	return rec, nil
}

// Delete removes the redirect ref names.
func (r *Registry) Delete(ctx context.Context, ref string) (store.Record, error) {
	current, err := r.get(ctx, ref)
	if err != nil {
		return store.Record{}, err
	}

	rec, err := r.store.Delete(ctx, current.PublicRef)
	if err != nil {
		return store.Record{}, err
	}

	r.compiled.Delete(rec.Alias)
	return rec, nil
}

// Clicks returns how often the redirect ref names was resolved.
func (r *Registry) Clicks(ctx context.Context, ref string) (int64, error) {
	if r.clicks == nil {
		return 0, fmt.Errorf("%w: clicks are not counted", golink.ErrNotImplemented)
	}

	rec, err := r.get(ctx, ref)
	if err != nil {
		return 0, err
	}

	return r.clicks.Clicks(ctx, rec.PublicRef)
}

// get tries ref lower-cased, as aliases are stored, and then as given, as public refs are.
func (r *Registry) get(ctx context.Context, ref string) (store.Record, error) {
	lower := strings.ToLower(strings.TrimPrefix(ref, "/"))
	rec, err := r.store.Get(ctx, lower)
	if err == nil || !errors.Is(err, golink.ErrNotFound) || lower == ref {
		return rec, err
	}

	return r.store.Get(ctx, ref)
}

// compile returns the cached template for rec,
// compiling it when missing or compiled from another destination.
func (r *Registry) compile(rec store.Record) *redirect.Compiled {
	if v, ok := r.compiled.Get(rec.Alias); ok {
		if e, ok := v.(entry); ok && e.destination == rec.Destination {
			return e.compiled
		}
	}

	alias := rec.Alias
	warner := redirect.WarnFunc(func(msg string) {
		r.logger.Warn(msg, &logger.LogContext{Data: map[string]any{"alias": alias}})
	})

	compiled := redirect.Compile(rec.Alias, rec.Destination, redirect.WithWarner(warner))
	r.compiled.SetDefault(rec.Alias, entry{compiled: compiled, destination: rec.Destination})

	return compiled
}

func (r *Registry) click(ctx context.Context, rec store.Record) {
	if r.clicks == nil {
		return
	}

	if err := r.clicks.AddClick(ctx, rec.PublicRef); err != nil {
		r.logger.Warn("failed counting click", &logger.LogContext{
			Error: err,
			Data:  map[string]any{"alias": rec.Alias, "publicRef": rec.PublicRef},
		})
	}
}
