package variantcache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Uokoroafor/hot-take-generator/internal/config"
)

func storeConfig(backend string) config.Config {
	return config.Config{
		CacheBackend:         backend,
		CacheTTL:             time.Minute,
		CacheVariantPoolSize: 3,
	}
}

func TestKey(t *testing.T) {
	if got := Key("  Pineapple Pizza ", "witty", ""); got != "hot_take:pineapple pizza:witty" {
		t.Errorf("key = %q", got)
	}
	if got := Key("topic", "witty", "openai"); got != "hot_take:topic:witty:openai" {
		t.Errorf("key with agent = %q", got)
	}
}

func TestAppendVariantDedupeAndTrim(t *testing.T) {
	var pool []Variant
	pool = appendVariant(pool, Variant{HotTake: "a"}, 3)
	pool = appendVariant(pool, Variant{HotTake: "a"}, 3)
	if len(pool) != 1 {
		t.Fatalf("duplicate not collapsed: %+v", pool)
	}

	pool = appendVariant(pool, Variant{HotTake: "b"}, 3)
	pool = appendVariant(pool, Variant{HotTake: "c"}, 3)
	pool = appendVariant(pool, Variant{HotTake: "d"}, 3)
	if len(pool) != 3 {
		t.Fatalf("pool not trimmed: %+v", pool)
	}
	if pool[0].HotTake != "b" || pool[2].HotTake != "d" {
		t.Fatalf("trim kept wrong entries: %+v", pool)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(time.Minute, 2)

	if _, _, err := store.GetRandom(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("empty store err = %v, want ErrMiss", err)
	}

	if n, err := store.Add(ctx, "k", Variant{HotTake: "one", AgentUsed: "OpenAI Agent"}); err != nil || n != 1 {
		t.Fatalf("Add = %d, %v", n, err)
	}
	if n, err := store.Add(ctx, "k", Variant{HotTake: "two", AgentUsed: "Claude Agent"}); err != nil || n != 2 {
		t.Fatalf("Add = %d, %v", n, err)
	}
	// Pool size 2: a third distinct variant evicts the oldest.
	if n, err := store.Add(ctx, "k", Variant{HotTake: "three", AgentUsed: "OpenAI Agent"}); err != nil || n != 2 {
		t.Fatalf("Add = %d, %v", n, err)
	}

	v, n, err := store.GetRandom(ctx, "k")
	if err != nil || n != 2 {
		t.Fatalf("GetRandom = %+v, %d, %v", v, n, err)
	}
	if v.HotTake == "one" {
		t.Errorf("evicted variant returned: %+v", v)
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"), time.Minute, 3)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer store.Close()

	if _, _, err := store.GetRandom(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("empty store err = %v, want ErrMiss", err)
	}

	if n, err := store.Add(ctx, "k", Variant{HotTake: "one", AgentUsed: "OpenAI Agent"}); err != nil || n != 1 {
		t.Fatalf("Add = %d, %v", n, err)
	}
	v, n, err := store.GetRandom(ctx, "k")
	if err != nil || n != 1 || v.HotTake != "one" {
		t.Fatalf("GetRandom = %+v, %d, %v", v, n, err)
	}
}

func TestSQLiteStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"), time.Minute, 3)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer store.Close()

	if _, err := store.Add(ctx, "k", Variant{HotTake: "one"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, _, err := store.GetRandom(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expired pool err = %v, want ErrMiss", err)
	}
}

func TestNewStoreUnknownBackend(t *testing.T) {
	if _, err := NewStore(storeConfig("nope")); err == nil {
		t.Fatal("unknown backend accepted")
	}
	store, err := NewStore(storeConfig("memory"))
	if err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	store.Close()
}
