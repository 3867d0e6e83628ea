package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/glosario-lsc/glosario/internal/glossary"
	"github.com/redis/go-redis/v9"
)

// SnapshotCache stores the full word listing between mutations.
type SnapshotCache interface {
	// Get returns (nil, nil) on a miss.
	Get(ctx context.Context) ([]*glossary.Word, error)
	Set(ctx context.Context, words []*glossary.Word) error
	Invalidate(ctx context.Context) error
}

// RedisSnapshotCache keeps the listing as JSON under a single key with a TTL.
type RedisSnapshotCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisSnapshotCache creates a Redis-backed snapshot cache. Key may be empty.
func NewRedisSnapshotCache(client *redis.Client, key string, ttl time.Duration) *RedisSnapshotCache {
	if key == "" {
		key = "glosario:snapshot"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisSnapshotCache{client: client, key: key, ttl: ttl}
}

func (r *RedisSnapshotCache) Get(ctx context.Context) ([]*glossary.Word, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var words []*glossary.Word
	if err := json.Unmarshal(b, &words); err != nil {
		// a corrupt entry is treated as a miss and dropped
		_ = r.client.Del(ctx, r.key).Err()
		return nil, nil
	}
	if words == nil {
		words = []*glossary.Word{}
	}
	return words, nil
}

func (r *RedisSnapshotCache) Set(ctx context.Context, words []*glossary.Word) error {
	if words == nil {
		words = []*glossary.Word{}
	}
	b, err := json.Marshal(words)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, b, r.ttl).Err()
}

func (r *RedisSnapshotCache) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
