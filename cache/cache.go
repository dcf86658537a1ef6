package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/terangalabs/alertsn/config"
)

// Invalidation scopes. Writes invalidate coarsely: dropping a page that was
// still valid only costs a recomputation, serving a stale one costs trust.
const (
	ScopeNearby = "emergencies:nearby:*"
	ScopeAll    = "emergencies:*"
)

// Invalidator is the one seam mutating operations use to drop cached pages,
// so the write-path coupling stays visible and testable.
type Invalidator interface {
	Invalidate(ctx context.Context, scopes ...string)
}

// Client wraps redis for the proximity cache. Every operation is best
// effort: failures are logged and swallowed, and a nil or disabled client
// behaves as a permanent miss. Losing the cache must never lose data.
type Client struct {
	rdb *redis.Client
}

// New opens a redis client, or returns a disabled (nil-backed) client when
// redis is switched off in config.
func New(c *config.Config) *Client {
	if !c.RedisEnabled {
		log.Println("redis disabled - running without cache")
		return &Client{}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort),
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	return &Client{rdb: rdb}
}

// Redis exposes the underlying client for collaborators that share the
// connection (rate-limit store). Nil when the cache is disabled.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

func (c *Client) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get unmarshals the cached value for key into dest and reports a hit.
func (c *Client) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		log.Printf("cache unmarshal %s: %v", key, err)
		return false
	}
	return true
}

// Set stores v under key with the given TTL.
func (c *Client) Set(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("cache marshal %s: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

// DeletePattern removes every key matching pattern.
func (c *Client) DeletePattern(ctx context.Context, pattern string) {
	if !c.Enabled() {
		return
	}
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache scan %s: %v", pattern, err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache delete %s: %v", pattern, err)
	}
}

// Invalidate drops every scope touched by a write.
func (c *Client) Invalidate(ctx context.Context, scopes ...string) {
	for _, scope := range scopes {
		c.DeletePattern(ctx, scope)
	}
}

func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// NearbyKey builds the cache key for a nearby page. Coordinates are
// quantized to four decimals (~11 m) so near-identical requests share an
// entry.
func NearbyKey(lat, lng, radius float64, typ, status string, limit, offset int) string {
	if typ == "" {
		typ = "all"
	}
	return fmt.Sprintf("emergencies:nearby:%.4f:%.4f:%d:%s:%s:%d:%d",
		lat, lng, int(radius), typ, status, limit, offset)
}
