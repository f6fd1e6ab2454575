// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/holomush/messagely/internal/store"
)

var _ = Describe("Connect and schema", Ordered, func() {
	var (
		ctx       context.Context
		container *postgres.PostgresContainer
		pool      *pgxpool.Pool
	)

	BeforeAll(func() {
		ctx = context.Background()
		var err error
		container, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("messagely_test"),
			postgres.WithUsername("messagely"),
			postgres.WithPassword("messagely"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		Expect(err).NotTo(HaveOccurred())

		connStr, err := container.ConnectionString(ctx, "sslmode=disable")
		Expect(err).NotTo(HaveOccurred())

		Expect(store.MigrateUp(connStr)).To(Succeed())

		pool, err = store.Connect(ctx, store.PoolConfig{URL: connStr, MaxConns: 4})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterAll(func() {
		if pool != nil {
			pool.Close()
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	})

	It("reports ready", func() {
		Expect(store.ReadinessProbe(pool, time.Second)()).To(BeTrue())
	})

	It("enforces message participants exist", func() {
		_, err := pool.Exec(ctx, `
			INSERT INTO messages (id, from_username, to_username, body, sent_at)
			VALUES ('01J00000000000000000000000', 'nobody', 'noone', 'hi', now())`)
		Expect(err).To(HaveOccurred())
	})

	It("rejects empty message bodies", func() {
		_, err := pool.Exec(ctx, `
			INSERT INTO users (username, password_hash, first_name, last_name, phone, joined_at, last_login_at)
			VALUES ('schema_user', 'x', 'S', 'U', '+1', now(), now())`)
		Expect(err).NotTo(HaveOccurred())

		_, err = pool.Exec(ctx, `
			INSERT INTO messages (id, from_username, to_username, body, sent_at)
			VALUES ('01J00000000000000000000001', 'schema_user', 'schema_user', '', now())`)
		Expect(err).To(HaveOccurred())
	})
})
