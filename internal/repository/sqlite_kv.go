package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	errorvalues "github.com/swaranjjalii/daily-execution-app/internal/error_values"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

// SQLiteKV is the default single-device backend: one local database file.
type SQLiteKV struct {
	sqlDB *sql.DB
}

// OpenSQLiteKV opens (creating when needed) the database file at path and ensures the schema.
func OpenSQLiteKV(ctx context.Context, path string) (*SQLiteKV, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir %q: %w", dir, err)
		}
	}
	dsn := "file:" + cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create kv schema: %w", err)
	}
	return &SQLiteKV{sqlDB: sqlDB}, nil
}

func (kv *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := kv.sqlDB.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorvalues.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get value by key: %w", err)
	}
	return []byte(value), nil
}

func (kv *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := kv.sqlDB.ExecContext(
		ctx,
		`INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		string(value),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("set value: %w", err)
	}
	return nil
}

func (kv *SQLiteKV) Ping(ctx context.Context) error {
	return kv.sqlDB.PingContext(ctx)
}

func (kv *SQLiteKV) Close() error {
	if kv == nil || kv.sqlDB == nil {
		return nil
	}
	return kv.sqlDB.Close()
}
