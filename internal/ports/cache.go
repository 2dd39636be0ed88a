package ports

import (
	"context"
	"time"
)

// Cache is a small key/value cache with TTLs. Backed by Redis in production
// and an in-memory map when Redis is not configured.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
