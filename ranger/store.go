package ranger

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/cache"
	"github.com/xy-planning-network/golink/http/middleware"
	"github.com/xy-planning-network/golink/logger"
	"github.com/xy-planning-network/golink/postgres"
	"github.com/xy-planning-network/golink/store"
)

// openStore selects the [store.Store] raw names by its scheme:
//
//   - memory:// keeps redirects in process
//   - file://<path> keeps redirects in a JSON file at path
//   - postgres://... or postgresql://... connects to that database;
//     a bare "postgres://" falls back to the DATABASE env vars
//
// The returned close func releases the store's connections.
func openStore(env golink.Environment, raw string) (store.Store, func() error, error) {
	noop := func() error { return nil }

	u, err := url.Parse(raw)
	if err != nil {
		return nil, noop, fmt.Errorf("%w: %s: %s", golink.ErrBadConfig, StoreURLEnvVar, err)
	}

	switch u.Scheme {
	case "memory":
		s, err := store.NewMemory()
		return s, noop, err

	case "file":
		path := strings.TrimPrefix(raw, "file://")
		if path == "" {
			return nil, noop, fmt.Errorf("%w: %s: file store requires a path", golink.ErrBadConfig, StoreURLEnvVar)
		}

		s, err := store.OpenFile(path)
		return s, noop, err

	case "postgres", "postgresql":
		cfg := NewPostgresConfig(env)
		if u.Host != "" {
			cfg = &postgres.CxnConfig{
				MaxIdleCxns: cfg.MaxIdleCxns,
				URL:         raw,
			}
		}

		db, err := postgres.Connect(cfg, postgres.Migrations, env)
		if err != nil {
			return nil, noop, err
		}

		closer := func() error {
			sqlDB, err := db.DB().DB()
			if err != nil {
				return err
			}

			return sqlDB.Close()
		}

		return postgres.NewRedirectStore(db), closer, nil

	default:
		return nil, noop, fmt.Errorf("%w: %s: unknown scheme %q", golink.ErrBadConfig, StoreURLEnvVar, u.Scheme)
	}
}

// A redisStack holds everything golink keeps in Redis.
type redisStack struct {
	client *redis.Client
	clicks cache.ClickCounter
	idem   middleware.IdempotencyCacher
	store  store.Store
}

// connectRedis decorates next with a Redis cache when raw is not empty,
// counting clicks and caching idempotent responses there, too.
//
// Without raw, connectRedis returns nil.
func connectRedis(ctx context.Context, raw string, next store.Store, l logger.Logger) (*redisStack, error) {
	if raw == "" {
		return nil, nil
	}

	client, err := cache.Connect(ctx, raw)
	if err != nil {
		return nil, err
	}

	ttl := golink.EnvVarOrDuration(redisTTLEnvVar, cache.DefaultTTL)

	return &redisStack{
		client: client,
		clicks: cache.NewRedisClicks(client),
		idem:   middleware.NewIdemResRedis(client),
		store:  cache.NewStore(next, client, cache.WithTTL(ttl), cache.WithLogger(l)),
	}, nil
}

// clicksFor picks where clicks on redirects in s are counted
// when Redis does not count them.
func clicksFor(s store.Store) cache.ClickCounter {
	if cc, ok := s.(cache.ClickCounter); ok {
		return cc
	}

	return cache.NewMemoryClicks()
}
