// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/messagely/internal/api"
	"github.com/holomush/messagely/internal/auth"
	authpg "github.com/holomush/messagely/internal/auth/postgres"
	"github.com/holomush/messagely/internal/config"
	"github.com/holomush/messagely/internal/logging"
	"github.com/holomush/messagely/internal/message"
	messagepg "github.com/holomush/messagely/internal/message/postgres"
	"github.com/holomush/messagely/internal/observability"
	"github.com/holomush/messagely/internal/store"
)

const serviceName = "messagely"

// readinessTimeout bounds each readiness ping.
const readinessTimeout = 2 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Messagely API server",
		Long: `Start the HTTP API server. Configuration is read from the config file,
then command-line flags, then the DATABASE_URL and MESSAGELY_SECRET_KEY
environment variables. The server shuts down gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, nil)
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

// runServeWithDeps runs the server until a signal arrives, ctx is
// cancelled, or a listener fails. If deps is nil, defaults are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, deps *ServeDeps) error {
	deps = deps.withDefaults()

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return oops.With("operation", "load configuration").Wrap(err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.SetDefault(serviceName, version, cfg.Log.Format, level)

	logger.Info("starting messagely",
		"http_addr", cfg.HTTP.Addr,
		"metrics_addr", cfg.Metrics.Addr,
		"log_format", cfg.Log.Format,
	)

	db, err := deps.DatabaseFactory(ctx, store.PoolConfig{
		URL:            cfg.Database.URL,
		MaxConns:       cfg.Database.MaxConns,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		Logger:         logger,
	})
	if err != nil {
		return oops.With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		logger.Info("applying migrations")
		if err := deps.Migrator(cfg.Database.URL); err != nil {
			return oops.With("operation", "auto-migrate").Wrap(err)
		}
	}

	authSvc, msgSvc, err := buildServices(cfg, db, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, store.ReadinessProbe(db, readinessTimeout))
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		metrics = obsServer.Metrics()
	}

	handler, err := api.NewHandler(api.Config{
		Auth:           authSvc,
		Messages:       msgSvc,
		Metrics:        metrics,
		Logger:         logger,
		PhoneRegion:    cfg.Auth.PhoneRegion,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})
	if err != nil {
		stopServer(obsServer, cfg.HTTP.ShutdownTimeout, "observability")
		return err
	}

	apiServer := deps.APIServerFactory(cfg.HTTP.Addr, handler, cfg.HTTP.ReadHeaderTimeout)
	apiErrChan, err := apiServer.Start()
	if err != nil {
		stopServer(obsServer, cfg.HTTP.ShutdownTimeout, "observability")
		return oops.With("operation", "start api server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Printf("Messagely listening on %s\n", apiServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	stopServer(apiServer, cfg.HTTP.ShutdownTimeout, "api")
	stopServer(obsServer, cfg.HTTP.ShutdownTimeout, "observability")

	logger.Info("shutdown complete")
	return nil
}

// buildServices wires the domain services over db.
func buildServices(cfg *config.Config, db store.Querier, logger *slog.Logger) (*auth.Service, *message.Service, error) {
	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, nil, err
	}
	issuer, err := auth.NewJWTIssuer(auth.JWTConfig{
		SecretKey: []byte(cfg.Auth.SecretKey),
		Issuer:    cfg.Auth.Issuer,
		TTL:       cfg.Auth.TokenTTL,
	})
	if err != nil {
		return nil, nil, err
	}

	users := authpg.NewUserRepository(db)
	authSvc, err := auth.NewAuthService(users, hasher, issuer, auth.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	msgSvc, err := message.NewService(messagepg.NewMessageRepository(db), users, message.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return authSvc, msgSvc, nil
}

// stopServer shuts s down within timeout, logging failures. A nil s is ignored.
func stopServer(s Server, timeout time.Duration, name string) {
	if s == nil {
		return
	}
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		slog.Warn("error stopping server", "server", name, "error", err)
	}
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
