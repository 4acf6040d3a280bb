package variantcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps variant pools in Redis as TTL'd JSON arrays, so multiple
// instances share one pool.
type Redis struct {
	client   *redis.Client
	ttl      time.Duration
	poolSize int
}

func NewRedis(rawURL string, ttl time.Duration, poolSize int) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("variantcache: parse redis url: %w", err)
	}
	return &Redis{
		client:   redis.NewClient(opts),
		ttl:      ttl,
		poolSize: poolSize,
	}, nil
}

func (r *Redis) GetRandom(ctx context.Context, key string) (Variant, int, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return Variant{}, 0, ErrMiss
	}
	if err != nil {
		return Variant{}, 0, fmt.Errorf("variantcache: redis get: %w", err)
	}

	var pool []Variant
	if err := json.Unmarshal([]byte(raw), &pool); err != nil {
		return Variant{}, 0, fmt.Errorf("variantcache: decode pool: %w", err)
	}
	if len(pool) == 0 {
		return Variant{}, 0, ErrMiss
	}
	return pool[rand.Intn(len(pool))], len(pool), nil
}

func (r *Redis) Add(ctx context.Context, key string, v Variant) (int, error) {
	var pool []Variant
	raw, err := r.client.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// no existing pool
	case err != nil:
		return 0, fmt.Errorf("variantcache: redis get: %w", err)
	default:
		if err := json.Unmarshal([]byte(raw), &pool); err != nil {
			pool = nil
		}
	}

	pool = appendVariant(pool, v, r.poolSize)
	encoded, err := json.Marshal(pool)
	if err != nil {
		return 0, fmt.Errorf("variantcache: encode pool: %w", err)
	}
	if err := r.client.SetEx(ctx, key, string(encoded), r.ttl).Err(); err != nil {
		return 0, fmt.Errorf("variantcache: redis setex: %w", err)
	}
	return len(pool), nil
}

func (r *Redis) Close() error { return r.client.Close() }
