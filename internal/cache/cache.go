package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SearchCache is a Redis-backed cache for serialized search responses.
// It is best-effort: any Redis failure reads as a miss and writes are
// dropped silently, the engine remains the source of truth.
type SearchCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr string, ttl time.Duration) *SearchCache {
	return &SearchCache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

// Key builds the cache key for one query. The level comes first so a
// whole level can be inspected with a single pattern.
func Key(query, nivel string, limit int64) string {
	return fmt.Sprintf("busca:%s:%d:%s", nivel, limit, query)
}

func (c *SearchCache) Get(ctx context.Context, key string, dest any) bool {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(payload, dest) == nil
}

func (c *SearchCache) Set(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, payload, c.ttl)
}
