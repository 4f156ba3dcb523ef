package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/golink"
)

var (
	_ ClickCounter = (*MemoryClicks)(nil)
	_ ClickCounter = RedisClicks{}
)

// A ClickCounter tallies the times a redirect was followed.
type ClickCounter interface {
	AddClick(ctx context.Context, ref string) error
	Clicks(ctx context.Context, ref string) (int64, error)
}

// MemoryClicks counts clicks in process.
type MemoryClicks struct {
	mu     sync.Mutex
	clicks map[string]int64
}

// NewMemoryClicks constructs an empty [*MemoryClicks].
func NewMemoryClicks() *MemoryClicks {
	return &MemoryClicks{clicks: make(map[string]int64)}
}

// AddClick increments the count for ref.
func (m *MemoryClicks) AddClick(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clicks[ref]++
	return nil
}

// Clicks returns the count for ref.
func (m *MemoryClicks) Clicks(_ context.Context, ref string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.clicks[ref], nil
}

// RedisClicks counts clicks with Redis INCR.
type RedisClicks struct {
	client redis.Cmdable
}

// NewRedisClicks constructs a RedisClicks over client.
func NewRedisClicks(client redis.Cmdable) RedisClicks {
	return RedisClicks{client: client}
}

// AddClick increments the count for ref.
func (rc RedisClicks) AddClick(ctx context.Context, ref string) error {
	if err := rc.client.Incr(ctx, clickKey(ref)).Err(); err != nil {
		return fmt.Errorf("%w: counting click for %q: %s", golink.ErrUnexpected, ref, err)
	}

	return nil
}

// Clicks returns the count for ref.
func (rc RedisClicks) Clicks(ctx context.Context, ref string) (int64, error) {
	n, err := rc.client.Get(ctx, clickKey(ref)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("%w: reading clicks for %q: %s", golink.ErrUnexpected, ref, err)
	}

	return n, nil
}
