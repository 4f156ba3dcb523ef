package middleware

import (
	"bytes"
	"context"
	"encoding/gob"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// IdempotencyTTL is how long a response is kept for its idempotency key.
const IdempotencyTTL = 24 * time.Hour

var (
	_ IdempotencyCacher = new(IdemResMap)
	_ IdempotencyCacher = IdemResRedis{}
)

// An IdempotencyCacher can store responses paired to idempotency keys.
type IdempotencyCacher interface {
	Get(ctx context.Context, key string) (IdemRes, bool)
	Set(ctx context.Context, key string, idemRes IdemRes)
}

// An IdemResMap stores idempotency key, IdemRes value pairs in a map.
//
// Server restarts reset this map.
type IdemResMap struct {
	mu  sync.Mutex
	val map[string]idemResMapVal
}

type idemResMapVal struct {
	IdemRes

	at time.Time
}

// NewIdemResMap constructs an *IdemResMap
// for use in an Idempotent middleware as a cache.
func NewIdemResMap() *IdemResMap { return &IdemResMap{val: make(map[string]idemResMapVal)} }

// Get retrieves the result of the request matching the idempotency key
// much like a regular map.
func (i *IdemResMap) Get(ctx context.Context, key string) (IdemRes, bool) {
	if key == "" || ctx.Err() != nil {
		return IdemRes{}, false
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	v, ok := i.val[key]
	if !ok || time.Since(v.at) > IdempotencyTTL {
		return IdemRes{}, false
	}

	return v.IdemRes, true
}

// Set overwrites the value paired to key in the map.
//
// For each call to Set, keys older than IdempotencyTTL are evicted.
func (i *IdemResMap) Set(ctx context.Context, key string, idemRes IdemRes) {
	if ctx.Err() != nil {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	for k, v := range i.val {
		if time.Since(v.at) > IdempotencyTTL {
			delete(i.val, k)
		}
	}

	idemRes.Body = bytes.Clone(idemRes.Body)
	i.val[key] = idemResMapVal{IdemRes: idemRes, at: time.Now()}
}

// An IdemResRedis connects to a Redis backend
// for the purposes of caching idempotent responses.
type IdemResRedis struct {
	client redis.Cmdable
}

// NewIdemResRedis constructs an IdemResRedis over client.
func NewIdemResRedis(client redis.Cmdable) IdemResRedis {
	return IdemResRedis{client: client}
}

func idemResKey(key string) string { return "golink:idempotency:" + key }

// Get retrieves the IdemRes paired to key from the connected Redis backend.
func (i IdemResRedis) Get(ctx context.Context, key string) (IdemRes, bool) {
	if key == "" {
		return IdemRes{}, false
	}

	b, err := i.client.Get(ctx, idemResKey(key)).Bytes()
	if err != nil {
		return IdemRes{}, false
	}

	var ir IdemRes
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&ir); err != nil {
		return IdemRes{}, false
	}

	return ir, true
}

// Set saves the IdemRes by pairing it to the key in the Redis backend.
func (i IdemResRedis) Set(ctx context.Context, key string, idemRes IdemRes) {
	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(idemRes); err != nil {
		return
	}

	i.client.Set(ctx, idemResKey(key), buf.Bytes(), IdempotencyTTL)
}
