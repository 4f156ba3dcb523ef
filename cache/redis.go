package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/golink"
)

const (
	keyPrefix    = "golink:"
	redirectKeys = keyPrefix + "redirect:"
	clickKeys    = keyPrefix + "clicks:"
)

// Connect parses url, opens a Redis client and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: REDIS_URL: %s", golink.ErrBadConfig, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: pinging redis: %s", golink.ErrUnexpected, err)
	}

	return client, nil
}

func redirectKey(ref string) string { return redirectKeys + ref }
func clickKey(ref string) string    { return clickKeys + ref }
