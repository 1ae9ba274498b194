package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps JSON-serialisable values by ID. Get returns nil, nil for a
// missing or expired key. Values are copied on the way in and out.
type Store[T any] interface {
	Set(ctx context.Context, id string, v *T) error
	Get(ctx context.Context, id string) (*T, error)
	Delete(ctx context.Context, id string) error
}

type redisStore[T any] struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store. Every write refreshes the TTL.
func NewRedisStore[T any](client redis.Cmdable, prefix string, ttl time.Duration) Store[T] {
	return &redisStore[T]{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *redisStore[T]) key(id string) string {
	return fmt.Sprintf("%s:%s", c.prefix, id)
}

func (c *redisStore[T]) Set(ctx context.Context, id string, v *T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(id), data, c.ttl).Err()
}

func (c *redisStore[T]) Get(ctx context.Context, id string) (*T, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *redisStore[T]) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

type memoryStore[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore creates a process-local store with the same copy and
// expiry semantics as the Redis one. A zero ttl never expires.
func NewMemoryStore[T any](ttl time.Duration) Store[T] {
	return &memoryStore[T]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *memoryStore[T]) Set(_ context.Context, id string, v *T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e := memoryEntry{data: data}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[id] = e
	c.mu.Unlock()
	return nil
}

func (c *memoryStore[T]) Get(_ context.Context, id string) (*T, error) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, id)
		c.mu.Unlock()
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(e.data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *memoryStore[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
	return nil
}
