package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/golink/logger"
	"github.com/xy-planning-network/golink/store"
)

// DefaultTTL is how long a cached record lives.
const DefaultTTL = time.Hour

var _ store.Store = (*Store)(nil)

// Store caches the records of another [store.Store] in Redis.
//
// Records are cached under both their alias and public reference.
// Redis failures are logged and the wrapped store.Store answers instead.
type Store struct {
	client redis.Cmdable
	logger logger.Logger
	next   store.Store
	ttl    time.Duration
}

// An Option configures a [*Store].
type Option func(*Store)

// WithTTL sets how long records are cached.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the logger Redis failures are written to.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore constructs a [*Store] caching next in client.
func NewStore(next store.Store, client redis.Cmdable, opts ...Option) *Store {
	s := &Store{
		client: client,
		logger: logger.New(nil),
		next:   next,
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Get retrieves the record ref names from Redis,
// falling back to the wrapped store.Store and caching what it finds.
func (s *Store) Get(ctx context.Context, ref string) (store.Record, error) {
	b, err := s.client.Get(ctx, redirectKey(ref)).Bytes()
	switch {
	case err == nil:
		var r store.Record
		if err := json.Unmarshal(b, &r); err == nil {
			return r, nil
		}

		s.logger.Warn("dropping undecodable cached redirect", &logger.LogContext{
			Data: map[string]any{"ref": ref},
		})
		s.forget(ctx, ref)

	case !errors.Is(err, redis.Nil):
		s.logger.Warn("redis get failed", &logger.LogContext{Error: err, Data: map[string]any{"ref": ref}})
	}

	r, err := s.next.Get(ctx, ref)
	if err != nil {
		return store.Record{}, err
	}

	s.remember(ctx, r)
	return r, nil
}

// Create stores a new record in the wrapped store.Store and caches it.
func (s *Store) Create(ctx context.Context, alias, destination string, by store.User) (store.Record, error) {
	r, err := s.next.Create(ctx, alias, destination, by)
	if err != nil {
		return store.Record{}, err
	}

	s.remember(ctx, r)
	return r, nil
}

// Update changes the record in the wrapped store.Store and evicts its cached copies.
func (s *Store) Update(ctx context.Context, ref, destination string, by store.User) (store.Record, error) {
	r, err := s.next.Update(ctx, ref, destination, by)
	if err != nil {
		return store.Record{}, err
	}

	s.forget(ctx, ref, r.Alias, r.PublicRef)
	return r, nil
}

// Delete removes the record from the wrapped store.Store and evicts its cached copies.
func (s *Store) Delete(ctx context.Context, ref string) (store.Record, error) {
	r, err := s.next.Delete(ctx, ref)
	if err != nil {
		return store.Record{}, err
	}

	s.forget(ctx, ref, r.Alias, r.PublicRef)
	return r, nil
}

// List is always served by the wrapped store.Store.
func (s *Store) List(ctx context.Context, page store.Page) (store.List, error) {
	return s.next.List(ctx, page)
}

func (s *Store) remember(ctx context.Context, r store.Record) {
	b, err := json.Marshal(r)
	if err != nil {
		return
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redirectKey(r.Alias), b, s.ttl)
	pipe.Set(ctx, redirectKey(r.PublicRef), b, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("redis set failed", &logger.LogContext{Error: err, Data: map[string]any{"ref": r.PublicRef}})
	}
}

func (s *Store) forget(ctx context.Context, refs ...string) {
	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		keys = append(keys, redirectKey(ref))
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("redis del failed", &logger.LogContext{Error: err, Data: map[string]any{"refs": refs}})
	}
}
