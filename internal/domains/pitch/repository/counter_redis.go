package repository

import (
	"context"
	"fmt"

	"pitchboard-backend/internal/domains/pitch/model"
	"pitchboard-backend/pkg/cache"
)

// RedisCounter buffer view counter trong Redis, worker sẽ sync xuống DB sau.
// Increment là at-least-once: retry có thể đếm hai lần.
type RedisCounter struct {
	cache cache.Cache
	views ViewRepository
}

func NewRedisCounter(c cache.Cache, views ViewRepository) *RedisCounter {
	return &RedisCounter{cache: c, views: views}
}

// GetAndIncrementViews implements view.CounterStore
func (c *RedisCounter) GetAndIncrementViews(ctx context.Context, id string) (int64, error) {
	key := model.GenerateViewCountKey(id)

	exists, err := c.cache.Exists(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("check view key: %w", err)
	}

	// Cache MISS - seed từ giá trị đã persist trong DB
	if !exists {
		base, err := c.views.GetViews(ctx, id)
		if err != nil {
			return 0, err
		}
		// SetNX: nếu request khác đã seed trước thì giữ nguyên
		if _, err := c.cache.SetNX(ctx, key, base, 0); err != nil {
			return 0, fmt.Errorf("seed view key: %w", err)
		}
	}

	total, err := c.cache.Increment(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("increment view key: %w", err)
	}

	if err := c.cache.AddToSet(ctx, model.ViewDirtySetKey, id); err != nil {
		return 0, fmt.Errorf("mark view dirty: %w", err)
	}

	return total, nil
}

// PostgresCounter tăng view trực tiếp trong DB, dùng khi không có Redis
type PostgresCounter struct {
	views ViewRepository
}

func NewPostgresCounter(views ViewRepository) *PostgresCounter {
	return &PostgresCounter{views: views}
}

func (c *PostgresCounter) GetAndIncrementViews(ctx context.Context, id string) (int64, error) {
	return c.views.IncrementViews(ctx, id)
}
