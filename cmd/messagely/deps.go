// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/holomush/messagely/internal/api"
	"github.com/holomush/messagely/internal/observability"
	"github.com/holomush/messagely/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// DatabaseFactory opens the connection pool.
	// Default: store.Connect
	DatabaseFactory func(ctx context.Context, cfg store.PoolConfig) (Database, error)

	// Migrator applies pending migrations when auto-migrate is enabled.
	// Default: store.MigrateUp
	Migrator func(databaseURL string) error

	// APIServerFactory creates the public API server.
	// Default: api.NewServer
	APIServerFactory func(addr string, handler http.Handler, readHeaderTimeout time.Duration) Server

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := ServeDeps{}
	if d != nil {
		out = *d
	}
	if out.DatabaseFactory == nil {
		out.DatabaseFactory = connectDatabase
	}
	if out.Migrator == nil {
		out.Migrator = store.MigrateUp
	}
	if out.APIServerFactory == nil {
		out.APIServerFactory = func(addr string, handler http.Handler, readHeaderTimeout time.Duration) Server {
			return api.NewServer(addr, handler, readHeaderTimeout)
		}
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
	return &out
}

// connectDatabase is the default DatabaseFactory.
func connectDatabase(ctx context.Context, cfg store.PoolConfig) (Database, error) {
	pool, err := store.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// Database wraps the pool methods used by the commands.
type Database interface {
	store.Querier
	store.Pinger
	Close()
}

// Server wraps the methods used from api.Server.
type Server interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Server
	Metrics() *observability.Metrics
}
