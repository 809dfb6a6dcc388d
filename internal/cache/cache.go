// Package cache is a best-effort Redis cache for generated replies. Repeat
// summarize/draft requests for the same document skip the remote call. The
// service works without Redis; every operation degrades to a miss.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	ttl       = 10 * time.Minute
	opTimeout = 2 * time.Second
)

// Cache wraps an optional Redis client.
type Cache struct {
	client *redis.Client
}

// New connects to Redis at addr. An empty addr or a failed ping returns a
// disabled cache, never an error.
func New(addr, password string, db int) *Cache {
	if addr == "" {
		return &Cache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("Warning: failed to connect to Redis: %v", err)
		log.Println("Generation results will not be cached")
		return &Cache{}
	}
	log.Println("Connected to Redis cache")
	return &Cache{client: client}
}

// Enabled reports whether a Redis backend is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Key derives the cache key for one generation request. Documents are keyed
// by content hash, never stored by name.
func Key(kind, text, language string) string {
	h := sha256.Sum256([]byte(language + "\x00" + text))
	return "nyayai:" + kind + ":" + hex.EncodeToString(h[:])
}

// Get returns the cached reply and whether it was present.
func (c *Cache) Get(ctx context.Context, kind, text, language string) (string, bool) {
	if !c.Enabled() {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	val, err := c.client.Get(ctx, Key(kind, text, language)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a reply. Failures are logged and otherwise ignored.
func (c *Cache) Set(ctx context.Context, kind, text, language, reply string) {
	if !c.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, Key(kind, text, language), reply, ttl).Err(); err != nil {
		log.Printf("Warning: failed to cache reply: %v", err)
	}
}

// Close releases the underlying connection if one exists.
func (c *Cache) Close() {
	if c.Enabled() {
		c.client.Close()
	}
}
