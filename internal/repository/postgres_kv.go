package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/swaranjjalii/daily-execution-app/internal/error_values"
	"github.com/swaranjjalii/daily-execution-app/pkg/cleanup"
)

// PostgresKV keeps values in the kv_store table created by migrations/00001_kv_store.sql.
type PostgresKV struct {
	conn  PgConnection
	close func()
}

func NewPostgresKV(ctx context.Context, cfg DBConfig) (*PostgresKV, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, errors.New("creating connection for postgres kv error: " + err.Error())
	}
	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, errors.New("error while pinging connection for postgres kv: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &PostgresKV{
		conn:  pool,
		close: pool.Close,
	}, nil
}

func NewPostgresKVWithConn(conn PgConnection) (*PostgresKV, error) {
	err := conn.Ping(context.Background())
	if err != nil {
		return nil, errors.New("error while pinging connection for postgres kv: " + err.Error())
	}
	return &PostgresKV{
		conn: conn,
	}, nil
}

func (kv *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	row := kv.conn.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1;`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrKeyNotFound
		}
		return nil, errors.New("getting value by key error: " + err.Error())
	}
	return []byte(value), nil
}

func (kv *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := kv.conn.Exec(ctx, `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW();`,
		key,
		string(value),
	)
	if err != nil {
		return errors.New("setting value error: " + err.Error())
	}
	return nil
}

func (kv *PostgresKV) Ping(ctx context.Context) error {
	return kv.conn.Ping(ctx)
}

func (kv *PostgresKV) Close() error {
	if kv.close != nil {
		kv.close()
	}
	return nil
}
