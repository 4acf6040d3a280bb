// Package variantcache stores small pools of previously generated takes so
// repeat requests for the same topic and style can be answered without an
// LLM call. Pools are keyed by topic, style, and optionally agent, hold at
// most a configured number of variants, and expire as a unit.
package variantcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Uokoroafor/hot-take-generator/internal/config"
)

// ErrMiss is returned when a key has no live pool.
var ErrMiss = errors.New("variantcache: miss")

// Variant is one cached take.
type Variant struct {
	HotTake   string `json:"hot_take"`
	AgentUsed string `json:"agent_used"`
}

// Store is a variant pool backend.
type Store interface {
	// GetRandom returns a random variant from the pool at key and the pool
	// size, or ErrMiss when the pool is absent, empty, or expired.
	GetRandom(ctx context.Context, key string) (Variant, int, error)
	// Add appends a variant to the pool at key, refreshing its TTL, and
	// returns the resulting pool size.
	Add(ctx context.Context, key string, v Variant) (int, error)
	Close() error
}

// Key builds the pool key for a request. The topic is lowercased and
// trimmed so cosmetic differences share a pool; a pinned agent gets its own
// pool because its variants come from a single voice.
func Key(topic, style, agentType string) string {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if agentType != "" {
		return fmt.Sprintf("hot_take:%s:%s:%s", topic, style, agentType)
	}
	return fmt.Sprintf("hot_take:%s:%s", topic, style)
}

// NewStore builds the backend named by cfg.CacheBackend.
func NewStore(cfg config.Config) (Store, error) {
	switch cfg.CacheBackend {
	case "memory":
		return NewMemory(cfg.CacheTTL, cfg.CacheVariantPoolSize), nil
	case "redis":
		return NewRedis(cfg.RedisURL, cfg.CacheTTL, cfg.CacheVariantPoolSize)
	case "sqlite":
		return NewSQLite(cfg.CachePath, cfg.CacheTTL, cfg.CacheVariantPoolSize)
	default:
		return nil, fmt.Errorf("variantcache: unknown backend %q", cfg.CacheBackend)
	}
}

// appendVariant adds v to pool, drops duplicates, and trims the pool to its
// most recent max entries.
func appendVariant(pool []Variant, v Variant, max int) []Variant {
	pool = append(pool, v)
	seen := make(map[string]struct{}, len(pool))
	deduped := make([]Variant, 0, len(pool))
	for _, item := range pool {
		raw, err := json.Marshal(item)
		if err != nil {
			continue
		}
		fingerprint := string(raw)
		if _, dup := seen[fingerprint]; dup {
			continue
		}
		seen[fingerprint] = struct{}{}
		deduped = append(deduped, item)
	}
	if max > 0 && len(deduped) > max {
		deduped = deduped[len(deduped)-max:]
	}
	return deduped
}
