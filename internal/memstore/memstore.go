// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

// Package memstore provides in-memory implementations of the user and
// message repositories. They enforce the same constraints as the
// PostgreSQL schema: unique usernames, message participants must exist,
// and read_at is set at most once.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/messagely/internal/auth"
	"github.com/holomush/messagely/internal/message"
)

// Store holds users and messages behind one lock.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]auth.Account
	messages map[ulid.ULID]message.Message
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		accounts: make(map[string]auth.Account),
		messages: make(map[ulid.ULID]message.Message),
	}
}

// Users returns the store's auth.UserRepository view.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Messages returns the store's message.Repository view.
func (s *Store) Messages() *MessageRepository { return &MessageRepository{s: s} }

// UserRepository implements auth.UserRepository in memory.
type UserRepository struct{ s *Store }

// Create stores a new account.
func (r *UserRepository) Create(_ context.Context, account *auth.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[account.Username]; ok {
		return oops.Code("USER_DUPLICATE").With("username", account.Username).Wrap(auth.ErrUsernameTaken)
	}
	r.s.accounts[account.Username] = *account
	return nil
}

// Get returns a user's profile.
func (r *UserRepository) Get(_ context.Context, username string) (*auth.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[username]
	if !ok {
		return nil, userNotFound(username)
	}
	u := a.User
	return &u, nil
}

// PasswordHash returns the stored hash.
func (r *UserRepository) PasswordHash(_ context.Context, username string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[username]
	if !ok {
		return "", userNotFound(username)
	}
	return a.PasswordHash, nil
}

// List returns all users ordered by last name, first name, username.
func (r *UserRepository) List(_ context.Context) ([]auth.UserSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]auth.UserSummary, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		out = append(out, auth.UserSummary{Username: a.Username, FirstName: a.FirstName, LastName: a.LastName})
	}
	slices.SortFunc(out, func(a, b auth.UserSummary) int {
		return cmp.Or(
			cmp.Compare(a.LastName, b.LastName),
			cmp.Compare(a.FirstName, b.FirstName),
			cmp.Compare(a.Username, b.Username),
		)
	})
	return out, nil
}

// Exists reports whether username is registered.
func (r *UserRepository) Exists(_ context.Context, username string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.accounts[username]
	return ok, nil
}

// UpdateLastLogin sets last_login_at.
func (r *UserRepository) UpdateLastLogin(_ context.Context, username string, at time.Time) error {
	return r.update(username, func(a *auth.Account) { a.LastLoginAt = at })
}

// UpdatePasswordHash replaces the stored hash.
func (r *UserRepository) UpdatePasswordHash(_ context.Context, username, hash string) error {
	return r.update(username, func(a *auth.Account) { a.PasswordHash = hash })
}

func (r *UserRepository) update(username string, fn func(*auth.Account)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[username]
	if !ok {
		return userNotFound(username)
	}
	fn(&a)
	r.s.accounts[username] = a
	return nil
}

func userNotFound(username string) error {
	return oops.Code("USER_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
}

// MessageRepository implements message.Repository in memory.
type MessageRepository struct{ s *Store }

// Create stores a new message.
func (r *MessageRepository) Create(_ context.Context, m *message.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[m.From]; !ok {
		return oops.Code("MESSAGE_SENDER_NOT_FOUND").With("from", m.From).Wrap(message.ErrSenderNotFound)
	}
	if _, ok := r.s.accounts[m.To]; !ok {
		return oops.Code("MESSAGE_RECIPIENT_NOT_FOUND").With("to", m.To).Wrap(message.ErrRecipientNotFound)
	}
	r.s.messages[m.ID] = *m
	return nil
}

// Get returns a message with both profiles.
func (r *MessageRepository) Get(_ context.Context, id ulid.ULID) (*message.Detail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.messages[id]
	if !ok {
		return nil, messageNotFound(id)
	}
	d := r.detail(m)
	return &d, nil
}

// MarkRead sets read_at unless it is already set.
func (r *MessageRepository) MarkRead(_ context.Context, id ulid.ULID, at time.Time) (*message.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok {
		return nil, messageNotFound(id)
	}
	if m.ReadAt == nil {
		m.ReadAt = &at
		r.s.messages[id] = m
	}
	return &m, nil
}

// ListFrom returns messages sent by username, oldest first.
func (r *MessageRepository) ListFrom(_ context.Context, username string) ([]message.Detail, error) {
	return r.list(func(m message.Message) bool { return m.From == username }), nil
}

// ListTo returns messages received by username, oldest first.
func (r *MessageRepository) ListTo(_ context.Context, username string) ([]message.Detail, error) {
	return r.list(func(m message.Message) bool { return m.To == username }), nil
}

func (r *MessageRepository) list(keep func(message.Message) bool) []message.Detail {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []message.Detail{}
	for _, m := range r.s.messages {
		if keep(m) {
			out = append(out, r.detail(m))
		}
	}
	slices.SortFunc(out, func(a, b message.Detail) int {
		return cmp.Or(a.SentAt.Compare(b.SentAt), a.ID.Compare(b.ID))
	})
	return out
}

// detail must be called with the lock held.
func (r *MessageRepository) detail(m message.Message) message.Detail {
	return message.Detail{
		Message:  m,
		FromUser: r.profile(m.From),
		ToUser:   r.profile(m.To),
	}
}

func (r *MessageRepository) profile(username string) message.Profile {
	a := r.s.accounts[username]
	return message.Profile{Username: username, FirstName: a.FirstName, LastName: a.LastName, Phone: a.Phone}
}

func messageNotFound(id ulid.ULID) error {
	return oops.Code("MESSAGE_NOT_FOUND").With("id", id.String()).Wrap(message.ErrNotFound)
}

// Compile-time interface checks.
var (
	_ auth.UserRepository   = (*UserRepository)(nil)
	_ message.Repository    = (*MessageRepository)(nil)
	_ message.UserDirectory = (*UserRepository)(nil)
)
