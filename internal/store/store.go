// File: internal/store/store.go

// Package store persists the onboarding completion flag and the collected
// key/value data in a local SQLite database. Writes are flushed durably
// before returning; the host may terminate immediately after a completion
// event.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// The two fixed keys of the persisted record.
const (
	keyCompleted = "onboarding.completed"
	keyData      = "onboarding.data"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value BLOB NOT NULL
);`

// Store provides SQLite-backed persistence for the onboarding record.
type Store struct {
	sqlDB  *sql.DB
	logger *zap.Logger
}

// Open opens (creating if necessary) the onboarding store at path.
// synchronous(FULL) trades write latency for durability: a completion event
// must survive the host terminating right after Save returns.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{sqlDB: sqlDB, logger: logger.Named("store")}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load reads the persisted completion flag and, when present, the collected
// mapping. A missing or undecodable mapping yields nil data: decode failures
// are non-fatal and indistinguishable from "never completed with data".
// nil data is distinct from an empty (but present) mapping.
func (s *Store) Load(ctx context.Context) (bool, map[string]string) {
	completed := false
	if raw, ok := s.get(ctx, keyCompleted); ok {
		completed = string(raw) == "1"
	}

	var data map[string]string
	if raw, ok := s.get(ctx, keyData); ok {
		decoded, err := DecodeMapping(raw)
		if err != nil {
			s.logger.Warn("Stored onboarding data failed to decode; treating as absent.",
				zap.Error(err))
		} else {
			data = decoded
		}
	}

	return completed, data
}

// Save writes the completion flag unconditionally and either writes the
// encoded mapping or removes the stored record when data is nil. The write
// is committed before Save returns.
func (s *Store) Save(ctx context.Context, completed bool, data map[string]string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("store is not open")
	}

	flag := []byte("0")
	if completed {
		flag = []byte("1")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := upsert(ctx, tx, keyCompleted, flag); err != nil {
		return err
	}

	if data == nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, keyData); err != nil {
			return fmt.Errorf("delete stored mapping: %w", err)
		}
	} else {
		encoded, err := EncodeMapping(data)
		if err != nil {
			return fmt.Errorf("encode mapping: %w", err)
		}
		if err := upsert(ctx, tx, keyData, encoded); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}

// Reset clears the persisted record: flag=false, mapping absent. Calling it
// repeatedly yields the same state as calling it once.
func (s *Store) Reset(ctx context.Context) error {
	return s.Save(ctx, false, nil)
}

func (s *Store) get(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("Failed to read persisted key.", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return value, true
}

func upsert(ctx context.Context, tx *sql.Tx, key string, value []byte) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}
