package cache

import (
	"context"
	"time"
)

// Cache interface định nghĩa contract cho cache layer
// Implementation: internal/infrastructure/cache.RedisCache (test chạy trên miniredis)
type Cache interface {
	// Ping kiểm tra connection
	Ping(ctx context.Context) error

	// Counter operations (raw value, không JSON)
	Increment(ctx context.Context, key string) (int64, error)
	SetNX(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error)
	GetInt(ctx context.Context, key string) (int64, bool, error)
	Exists(ctx context.Context, key string) (bool, error)

	// Set operations
	AddToSet(ctx context.Context, key string, members ...string) error
	PopFromSet(ctx context.Context, key string, count int64) ([]string, error)
}
