package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wifight/wifight/internal/ports"
)

// ErrNotFound is returned by LocalCache when a key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

type localEntry struct {
	value     string
	expiresAt time.Time
}

// LocalCache is an in-process fallback used when no Redis URL is configured.
type LocalCache struct {
	mu      sync.RWMutex
	entries map[string]localEntry
}

func NewLocalCache() ports.Cache {
	return &LocalCache{
		entries: make(map[string]localEntry),
	}
}

func (c *LocalCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (c *LocalCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	entry := localEntry{value: fmt.Sprintf("%v", value)}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Ping() error {
	return nil
}

func (c *LocalCache) Close() error {
	return nil
}
