package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/reviews-feed/internal/assets"
)

// SQLiteStore is a persistent asset tier in a single sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS assets (
  key TEXT PRIMARY KEY,
  data BLOB NOT NULL,
  size INTEGER NOT NULL,
  stored_at TEXT NOT NULL
);
`
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM assets WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, assets.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load asset %q: %w", key, err)
	}
	return data, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO assets (key, data, size, stored_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  data=excluded.data,
  size=excluded.size,
  stored_at=excluded.stored_at
`, key, data, len(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save asset %q: %w", key, err)
	}
	return nil
}

// Stats reports how many assets are stored and their total size in bytes.
func (s *SQLiteStore) Stats(ctx context.Context) (int, int64, error) {
	var count int
	var size int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(size), 0) FROM assets`).Scan(&count, &size)
	if err != nil {
		return 0, 0, fmt.Errorf("query asset stats: %w", err)
	}
	return count, size, nil
}
