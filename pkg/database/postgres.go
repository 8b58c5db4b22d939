package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	*pgxpool.Pool

	acquireTimeout   time.Duration
	statementTimeout time.Duration
}

// Config holds database connection configuration.
type Config struct {
	URL              string
	MaxConnections   int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	AcquireTimeout   time.Duration
	StatementTimeout time.Duration
}

// NewConnection creates a new database connection pool.
func NewConnection(ctx context.Context, cfg *Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConnections
	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = 25
	}

	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	if poolConfig.MaxConnLifetime == 0 {
		poolConfig.MaxConnLifetime = time.Hour
	}

	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	if poolConfig.MaxConnIdleTime == 0 {
		poolConfig.MaxConnIdleTime = time.Minute * 30
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		Pool:             pool,
		acquireTimeout:   cfg.AcquireTimeout,
		statementTimeout: cfg.StatementTimeout,
	}
	if db.acquireTimeout == 0 {
		db.acquireTimeout = 5 * time.Second
	}
	if db.statementTimeout == 0 {
		db.statementTimeout = 30 * time.Second
	}
	return db, nil
}

// NewFromPool wraps an existing pool. Used by tests that build the pool
// themselves.
func NewFromPool(pool *pgxpool.Pool) *DB {
	return &DB{
		Pool:             pool,
		acquireTimeout:   5 * time.Second,
		statementTimeout: 30 * time.Second,
	}
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}
