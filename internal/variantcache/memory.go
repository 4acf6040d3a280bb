package variantcache

import (
	"context"
	"math/rand"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory keeps variant pools in process memory. It is the default backend.
type Memory struct {
	mu       sync.Mutex
	cache    *gocache.Cache
	ttl      time.Duration
	poolSize int
}

func NewMemory(ttl time.Duration, poolSize int) *Memory {
	return &Memory{
		cache:    gocache.New(ttl, 2*ttl),
		ttl:      ttl,
		poolSize: poolSize,
	}
}

func (m *Memory) GetRandom(_ context.Context, key string) (Variant, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, found := m.cache.Get(key)
	if !found {
		return Variant{}, 0, ErrMiss
	}
	pool, ok := raw.([]Variant)
	if !ok || len(pool) == 0 {
		return Variant{}, 0, ErrMiss
	}
	return pool[rand.Intn(len(pool))], len(pool), nil
}

func (m *Memory) Add(_ context.Context, key string, v Variant) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pool []Variant
	if raw, found := m.cache.Get(key); found {
		if existing, ok := raw.([]Variant); ok {
			pool = existing
		}
	}
	pool = appendVariant(pool, v, m.poolSize)
	m.cache.Set(key, pool, m.ttl)
	return len(pool), nil
}

func (m *Memory) Close() error { return nil }
