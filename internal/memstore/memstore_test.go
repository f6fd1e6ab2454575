// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/messagely/internal/auth"
	"github.com/holomush/messagely/internal/memstore"
	"github.com/holomush/messagely/internal/message"
)

var t0 = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

func account(username, first, last string) *auth.Account {
	return &auth.Account{
		User:         auth.User{Username: username, FirstName: first, LastName: last, Phone: "+1555", JoinedAt: t0, LastLoginAt: t0},
		PasswordHash: "h-" + username,
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	users := memstore.New().Users()

	require.NoError(t, users.Create(ctx, account("zed", "Zed", "Adams")))
	require.NoError(t, users.Create(ctx, account("amy", "Amy", "Brown")))
	require.NoError(t, users.Create(ctx, account("abe", "Abe", "Adams")))

	assert.ErrorIs(t, users.Create(ctx, account("amy", "X", "Y")), auth.ErrUsernameTaken)

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"abe", "zed", "amy"}, []string{list[0].Username, list[1].Username, list[2].Username})

	hash, err := users.PasswordHash(ctx, "amy")
	require.NoError(t, err)
	assert.Equal(t, "h-amy", hash)

	require.NoError(t, users.UpdateLastLogin(ctx, "amy", t0.Add(time.Hour)))
	u, err := users.Get(ctx, "amy")
	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Hour), u.LastLoginAt)
	assert.Equal(t, t0, u.JoinedAt)

	_, err = users.Get(ctx, "ghost")
	assert.ErrorIs(t, err, auth.ErrNotFound)
	assert.ErrorIs(t, users.UpdatePasswordHash(ctx, "ghost", "x"), auth.ErrNotFound)

	ok, err := users.Exists(ctx, "zed")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMessages(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Users().Create(ctx, account("alice", "Alice", "A")))
	require.NoError(t, s.Users().Create(ctx, account("bob", "Bob", "B")))
	msgs := s.Messages()

	later := &message.Message{ID: ulid.Make(), From: "alice", To: "bob", Body: "2", SentAt: t0.Add(time.Minute)}
	first := &message.Message{ID: ulid.Make(), From: "alice", To: "bob", Body: "1", SentAt: t0}
	require.NoError(t, msgs.Create(ctx, later))
	require.NoError(t, msgs.Create(ctx, first))

	err := msgs.Create(ctx, &message.Message{ID: ulid.Make(), From: "alice", To: "ghost", Body: "x", SentAt: t0})
	assert.ErrorIs(t, err, message.ErrRecipientNotFound)
	err = msgs.Create(ctx, &message.Message{ID: ulid.Make(), From: "ghost", To: "bob", Body: "x", SentAt: t0})
	assert.ErrorIs(t, err, message.ErrSenderNotFound)

	d, err := msgs.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", d.FromUser.FirstName)
	assert.Equal(t, "Bob", d.ToUser.FirstName)

	from, err := msgs.ListFrom(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, from, 2)
	assert.Equal(t, first.ID, from[0].ID)

	to, err := msgs.ListTo(ctx, "alice")
	require.NoError(t, err)
	assert.NotNil(t, to)
	assert.Empty(t, to)

	m, err := msgs.MarkRead(ctx, first.ID, t0.Add(time.Hour))
	require.NoError(t, err)
	m2, err := msgs.MarkRead(ctx, first.ID, t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, *m.ReadAt, *m2.ReadAt)

	_, err = msgs.MarkRead(ctx, ulid.Make(), t0)
	assert.ErrorIs(t, err, message.ErrNotFound)
}
