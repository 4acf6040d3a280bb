package variantcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS variant_pools (
	key        TEXT PRIMARY KEY,
	variants   TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);
`

// SQLite keeps variant pools in an embedded database so they survive
// restarts without an external cache server.
type SQLite struct {
	db       *sql.DB
	ttl      time.Duration
	poolSize int
	now      func() time.Time
}

func NewSQLite(path string, ttl time.Duration, poolSize int) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("variantcache: open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("variantcache: init schema: %w", err)
	}
	return &SQLite{db: db, ttl: ttl, poolSize: poolSize, now: time.Now}, nil
}

// loadPool returns the live pool at key, or nil when absent or expired.
// Expired rows are removed on read.
func (s *SQLite) loadPool(ctx context.Context, key string) ([]Variant, error) {
	var raw string
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT variants, expires_at FROM variant_pools WHERE key = ?`, key,
	).Scan(&raw, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("variantcache: sqlite select: %w", err)
	}

	if s.now().Unix() >= expiresAt {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM variant_pools WHERE key = ?`, key); err != nil {
			return nil, fmt.Errorf("variantcache: sqlite expire: %w", err)
		}
		return nil, nil
	}

	var pool []Variant
	if err := json.Unmarshal([]byte(raw), &pool); err != nil {
		return nil, fmt.Errorf("variantcache: decode pool: %w", err)
	}
	return pool, nil
}

func (s *SQLite) GetRandom(ctx context.Context, key string) (Variant, int, error) {
	pool, err := s.loadPool(ctx, key)
	if err != nil {
		return Variant{}, 0, err
	}
	if len(pool) == 0 {
		return Variant{}, 0, ErrMiss
	}
	return pool[rand.Intn(len(pool))], len(pool), nil
}

func (s *SQLite) Add(ctx context.Context, key string, v Variant) (int, error) {
	pool, err := s.loadPool(ctx, key)
	if err != nil {
		return 0, err
	}
	pool = appendVariant(pool, v, s.poolSize)

	encoded, err := json.Marshal(pool)
	if err != nil {
		return 0, fmt.Errorf("variantcache: encode pool: %w", err)
	}
	expiresAt := s.now().Add(s.ttl).Unix()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO variant_pools (key, variants, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET variants = excluded.variants, expires_at = excluded.expires_at`,
		key, string(encoded), expiresAt)
	if err != nil {
		return 0, fmt.Errorf("variantcache: sqlite upsert: %w", err)
	}
	return len(pool), nil
}

func (s *SQLite) Close() error { return s.db.Close() }
