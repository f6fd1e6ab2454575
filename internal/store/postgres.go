// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

// Package store provides PostgreSQL connectivity and schema migrations.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Querier is the subset of pgxpool.Pool used by repositories. It is
// satisfied by *pgxpool.Pool, pgx.Tx, and pgxmock pools.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Querier = (*pgxpool.Pool)(nil)

// Connection defaults.
const (
	DefaultConnectTimeout = 30 * time.Second
	DefaultConnectRetries = 10
	defaultRetryBase      = 250 * time.Millisecond
	maxRetryInterval      = 5 * time.Second
)

// PoolConfig configures Connect.
type PoolConfig struct {
	URL string
	// MaxConns caps the pool size; zero keeps the pgx default.
	MaxConns int32
	// ConnectTimeout bounds the whole startup sequence including retries.
	ConnectTimeout time.Duration
	// MaxRetries bounds the number of ping attempts after the first.
	MaxRetries uint64
	// RetryBase is the first backoff interval; it doubles per attempt.
	RetryBase time.Duration
	Logger    *slog.Logger
}

// Connect opens a pool and waits until the database answers a ping,
// retrying with exponential backoff. Only startup is retried; queries
// issued later through the pool are not.
func Connect(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").With("operation", "parse database url").Wrap(err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	retries := cfg.MaxRetries
	if retries == 0 {
		retries = DefaultConnectRetries
	}
	base := cfg.RetryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}

	backoff := retry.WithMaxRetries(retries, retry.WithCappedDuration(maxRetryInterval, retry.NewExponential(base)))
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := pool.Ping(ctx); err != nil {
			logger.Warn("database not ready", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping database").
			With("attempts", attempt).
			Wrap(err)
	}

	logger.Info("database connected", "attempts", attempt, "max_conns", pcfg.MaxConns)
	return pool, nil
}

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessProbe returns a readiness function that pings the database
// with the given per-check timeout.
func ReadinessProbe(p Pinger, timeout time.Duration) func() bool {
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return p.Ping(ctx) == nil
	}
}
